// Package main writes a sample catalog for local development.
//
// The catalog covers every genre with a mix of ongoing and completed novels,
// random view/vote counts and a few HTML chapters each. Optionally demo
// readers are created with hashed passwords.
//
// Usage:
//
//	DATA_PATH=~/iNovel/data go run ./cmd/seed
//	go run ./cmd/seed -data-path ./data -novels 40 -users -force
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/inovelapp/inovel-server/internal/auth"
	"github.com/inovelapp/inovel-server/internal/domain"
	"github.com/inovelapp/inovel-server/internal/store"
	"github.com/inovelapp/inovel-server/internal/store/backend"
)

var (
	dataPath    = flag.String("data-path", "", "Data directory (default: $DATA_PATH or ~/iNovel/data)")
	storageName = flag.String("storage", "", "Storage backend (default: $STORAGE_BACKEND or jsonfile)")
	novelCount  = flag.Int("novels", 24, "Number of novels to generate")
	seed        = flag.Uint64("seed", 1, "Random seed; the same seed yields the same catalog")
	createUsers = flag.Bool("users", false, "Also create demo readers (password: password)")
	force       = flag.Bool("force", false, "Overwrite an existing catalog")
)

var (
	titleHeads = []string{"Sky", "Sword", "Jade", "Star", "Iron", "Moon", "Cloud", "Dragon", "River", "Frost"}
	titleTails = []string{"Chronicle", "Path", "Emperor", "Sect", "Realm", "Legend", "Gate", "Song", "Record", "Domain"}
	authors    = []string{"Lan Yue", "Mo Shan", "Qing Feng", "Bai He", "Zhou Ling", "Xu Chen"}
	demoUsers  = []string{"reader", "alice", "bob"}
)

func main() {
	flag.Parse()

	dir := resolveDataPath(*dataPath)
	name := *storageName
	if name == "" {
		name = envOr("STORAGE_BACKEND", backend.Names[0])
	}

	fmt.Printf("Seeding %s store at: %s\n", name, dir)

	b, err := backend.Open(name, dir, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	st := store.New(b, nil)
	defer st.Close()

	ctx := context.Background()

	exists, err := st.Novels.Exists(ctx)
	if err != nil {
		log.Fatalf("Failed to check catalog: %v", err)
	}
	if exists && !*force {
		log.Fatal("A catalog already exists. Use -force to overwrite it.")
	}

	if err := st.Bootstrap(ctx); err != nil {
		log.Fatalf("Failed to prepare collections: %v", err)
	}

	rng := rand.New(rand.NewPCG(*seed, *seed))
	novels := generateNovels(rng, *novelCount)
	if err := st.Novels.Save(ctx, novels); err != nil {
		log.Fatalf("Failed to write novels: %v", err)
	}
	fmt.Printf("Wrote %d novels\n", len(novels))

	if *createUsers {
		if err := seedUsers(ctx, st, rng, novels); err != nil {
			log.Fatalf("Failed to write users: %v", err)
		}
	}

	fmt.Println("Done.")
}

func generateNovels(rng *rand.Rand, n int) []domain.Novel {
	start := time.Date(2024, 1, 1, 8, 0, 0, 0, time.Local)
	novels := make([]domain.Novel, 0, n)

	for i := range n {
		genre := domain.Genres[i%len(domain.Genres)]
		status := domain.StatusOngoing
		if rng.IntN(3) == 0 {
			status = domain.StatusCompleted
		}

		title := fmt.Sprintf("%s %s", titleHeads[rng.IntN(len(titleHeads))], titleTails[rng.IntN(len(titleTails))])
		updated := start.Add(time.Duration(rng.IntN(300*24)) * time.Hour)

		novels = append(novels, domain.Novel{
			ID:         i + 1,
			Title:      fmt.Sprintf("%s %d", title, i+1),
			Author:     authors[rng.IntN(len(authors))],
			Genre:      genre.Name,
			Status:     status,
			Views:      rng.IntN(50000),
			Votes:      rng.IntN(2000),
			UpdateTime: updated.Format(domain.CommentTimeLayout),
			Intro:      fmt.Sprintf("A %s story by the river of stars.", genre.Slug),
			Chapters:   generateChapters(rng, title),
		})
	}
	return novels
}

func generateChapters(rng *rand.Rand, title string) []domain.Chapter {
	count := 3 + rng.IntN(6)
	chapters := make([]domain.Chapter, 0, count)
	for i := range count {
		var body strings.Builder
		for p := range 2 + rng.IntN(4) {
			fmt.Fprintf(&body, "<p>%s, part %d. The <strong>wind</strong> turned for the %d time.</p>", title, i+1, p+1)
		}
		chapters = append(chapters, domain.Chapter{
			ID:      i + 1,
			Title:   fmt.Sprintf("Chapter %d", i+1),
			Content: body.String(),
		})
	}
	return chapters
}

func seedUsers(ctx context.Context, st *store.Store, rng *rand.Rand, novels []domain.Novel) error {
	hash, err := auth.HashPassword("password")
	if err != nil {
		return err
	}

	return st.Users.Update(ctx, func(users []domain.User) ([]domain.User, error) {
		nextID := 1
		for _, u := range users {
			nextID = max(nextID, u.ID+1)
		}

		for _, name := range demoUsers {
			if _, ok := store.FindUserByName(users, name); ok {
				fmt.Printf("User %s already exists, skipping\n", name)
				continue
			}
			u := domain.User{ID: nextID, Username: name, PasswordHash: hash, Favorites: []int{}, RecentRead: []int{}}
			for range 3 {
				u.ToggleFavorite(novels[rng.IntN(len(novels))].ID)
				u.MarkRead(novels[rng.IntN(len(novels))].ID)
			}
			users = append(users, u)
			nextID++
			fmt.Printf("Created user %s\n", name)
		}
		return users, nil
	})
}

func resolveDataPath(flagValue string) string {
	path := flagValue
	if path == "" {
		path = os.Getenv("DATA_PATH")
	}
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to resolve home directory: %v", err)
		}
		return filepath.Join(home, "iNovel", "data")
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return path
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
