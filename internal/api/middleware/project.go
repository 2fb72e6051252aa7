package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"

	"github.com/taskstar/taskstar/internal/api/response"
	"github.com/taskstar/taskstar/internal/domain"
	"github.com/taskstar/taskstar/internal/store"
)

var projectNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// ValidProjectName reports whether name can be used as a project, and so
// as a database file name.
func ValidProjectName(name string) bool {
	return projectNamePattern.MatchString(name)
}

type projectKey struct{}

// projectScope is what every project route needs: the name and its database.
type projectScope struct {
	name string
	db   *sql.DB
}

// ProjectContext opens the database of the {project} URL parameter,
// creating it on first use.
func ProjectContext(manager *store.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			name := chi.URLParam(r, "project")
			if !ValidProjectName(name) {
				response.Error(w, domain.NewValidationError([]string{
					"Invalid project name. Must be 1-64 alphanumeric characters, hyphens, or underscores.",
				}))
				return
			}

			db, err := manager.GetDB(name)
			if err != nil {
				response.Error(w, domain.NewInternalError(err))
				return
			}

			ctx := context.WithValue(r.Context(), projectKey{}, projectScope{name: name, db: db})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Project returns the project name, or "" outside a project route.
func Project(ctx context.Context) string {
	scope, _ := ctx.Value(projectKey{}).(projectScope)
	return scope.name
}

// DB returns the project database, or nil outside a project route.
func DB(ctx context.Context) *sql.DB {
	scope, _ := ctx.Value(projectKey{}).(projectScope)
	return scope.db
}
