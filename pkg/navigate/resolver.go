// Package navigate turns node ids into destination URLs.
package navigate

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/Dicklesworthstone/egograph/pkg/model"
)

// ErrNoOrigin is returned when a resolver is built without an absolute origin.
var ErrNoOrigin = errors.New("navigate: origin must be an absolute URL")

// DefaultSuffix is appended to slugs resolved through the fallback path.
const DefaultSuffix = ".html"

// Resolver maps node ids to absolute URLs. Resolution order: the node's URL,
// then its href (relative hrefs resolve against the origin), then the id as a
// slug under the base path.
type Resolver struct {
	origin   *url.URL
	basePath string
	suffix   string
	nodes    map[string]model.Node
}

// NewResolver builds a resolver for the site at origin. basePath is the path
// prefix pages live under; suffix is appended to slugs ("" keeps
// DefaultSuffix, "/" style values are used verbatim).
func NewResolver(origin, basePath, suffix string, nodes []model.Node) (*Resolver, error) {
	u, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("parse origin: %w", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, ErrNoOrigin
	}
	if suffix == "" {
		suffix = DefaultSuffix
	}

	r := &Resolver{
		origin:   u,
		basePath: "/" + strings.Trim(basePath, "/"),
		suffix:   suffix,
		nodes:    make(map[string]model.Node, len(nodes)),
	}
	for _, n := range nodes {
		r.nodes[n.ID] = n
	}
	return r, nil
}

// Resolve returns the destination for id.
func (r *Resolver) Resolve(id string) string {
	n, ok := r.nodes[id]
	if ok {
		if u, err := url.Parse(n.URL); err == nil && n.URL != "" && u.IsAbs() {
			return u.String()
		}
		if n.Href != "" {
			if u, err := url.Parse(n.Href); err == nil {
				return r.origin.ResolveReference(u).String()
			}
		}
	}
	return r.slugURL(id)
}

// slugURL places id under the base path. Dot segments are dropped so an id
// can never climb out of it.
func (r *Resolver) slugURL(id string) string {
	var parts []string
	for _, seg := range strings.Split(id, "/") {
		if seg == "" || seg == "." || seg == ".." {
			continue
		}
		parts = append(parts, seg)
	}
	slug := strings.Join(parts, "/")
	p := path.Join(r.basePath, slug)
	if slug != "" && !strings.HasSuffix(p, r.suffix) {
		p += r.suffix
	}

	segments := strings.Split(p, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	u := *r.origin
	u.Path = p
	u.RawPath = strings.Join(segments, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
