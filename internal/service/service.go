// Package service implements the reading site's operations on top of the
// store: catalog queries, the detail and read views, favorites, comments,
// registration and login, profiles and full-text search.
package service

import (
	domainerrors "github.com/inovelapp/inovel-server/internal/errors"
	"github.com/inovelapp/inovel-server/internal/validation"
)

// validate is a shared validator instance for request validation.
var validate = validation.New()

// errLoginRequired is returned by operations that need a logged-in session.
var errLoginRequired = domainerrors.Unauthorized("login required")
