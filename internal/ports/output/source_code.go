package output

import (
	"context"

	"nsmigrate/internal/domain/consolidation"
	"nsmigrate/internal/domain/entities"
)

// NamespaceResolver maps a namespace reference to its post-migration name.
type NamespaceResolver interface {
	Resolve(namespace, key string) (string, consolidation.Resolution)
}

// SourceCode finds and rewrites translation call sites in application code.
type SourceCode interface {
	// Files lists, sorted, the source files under root that may be rewritten.
	Files(ctx context.Context, root string) ([]string, error)
	FindCallSites(ctx context.Context, path string) ([]entities.CallSite, error)
	// RewriteFile replaces the namespace of every call site r maps elsewhere.
	// The file is only written when write is true.
	RewriteFile(ctx context.Context, path string, r NamespaceResolver, write bool) (entities.RewriteResult, error)
	// UpdateNamespaceList replaces the elements of the namespace list
	// declared in path. It reports whether the content changed.
	UpdateNamespaceList(ctx context.Context, path string, namespaces []string, write bool) (bool, error)
}
