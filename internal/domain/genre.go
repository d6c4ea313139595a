package domain

// Genre pairs the URL slug of a category with the name stored on novels.
type Genre struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// Genres is the fixed category list, in display order.
var Genres = []Genre{
	{Slug: "xuanhuan", Name: "玄幻"},
	{Slug: "xianxia", Name: "仙侠"},
	{Slug: "wuxia", Name: "武侠"},
	{Slug: "urban", Name: "都市"},
	{Slug: "history", Name: "历史"},
	{Slug: "game", Name: "游戏"},
	{Slug: "scifi", Name: "科幻"},
	{Slug: "light-novel", Name: "轻小说"},
	{Slug: "infinite", Name: "诸天无限"},
}

// LookupGenre resolves a slug or a stored genre name. Unknown values are
// returned as-is so that category filtering stays an exact string match.
func LookupGenre(key string) (Genre, bool) {
	for _, g := range Genres {
		if g.Slug == key || g.Name == key {
			return g, true
		}
	}
	return Genre{Slug: key, Name: key}, false
}
