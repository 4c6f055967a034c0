package schema

import (
	"net/url"
	"sort"
	"strings"
)

// DefaultIDAttribute is used when neither the type nor the config names one.
const DefaultIDAttribute = "id"

// Config is the schema configuration surface.
type Config struct {
	// APIURL is the base URL every endpoint path is appended to.
	APIURL string `yaml:"apiUrl" json:"apiUrl"`
	// IDAttribute is the store-wide identifier attribute.
	IDAttribute string `yaml:"idAttribute" json:"idAttribute"`
	// Types maps a type name to its configuration.
	Types map[string]TypeConfig `yaml:"types" json:"types"`
}

// TypeConfig configures one type.
type TypeConfig struct {
	URL         string    `yaml:"url" json:"url"`
	IDAttribute string    `yaml:"idAttribute,omitempty" json:"idAttribute,omitempty"`
	OneToMany   Relations `yaml:"oneToMany,omitempty" json:"oneToMany,omitempty"`
	ForeignKey  Relations `yaml:"foreignKey,omitempty" json:"foreignKey,omitempty"`
	OrderBy     string    `yaml:"orderBy,omitempty" json:"orderBy,omitempty"`
	// Parse is an expr-lang expression turning a wrapped response into records.
	Parse string `yaml:"parse,omitempty" json:"parse,omitempty"`
	// ParseFunc takes precedence over Parse.
	ParseFunc ParseFunc `yaml:"-" json:"-"`
}

// Entry is the validated, immutable schema of one type.
type Entry struct {
	Name        string
	URL         string
	IDAttribute string
	OneToMany   Relations
	ForeignKey  Relations
	OrderBy     string
	Parse       ParseFunc
}

// Order returns the attribute to sort by and whether the order is reversed.
// An empty attribute means no ordering is declared.
func (e *Entry) Order() (attr string, reverse bool) {
	attr, reverse = strings.CutPrefix(e.OrderBy, "-")
	return attr, reverse
}

// IsRelation reports whether attr is declared as any relation of the type.
func (e *Entry) IsRelation(attr string) bool {
	_, many := e.OneToMany.Lookup(attr)
	_, one := e.ForeignKey.Lookup(attr)
	return many || one
}

// Registry is the set of validated entries.
type Registry struct {
	apiURL  string
	entries map[string]*Entry
	names   []string
}

// New validates cfg and builds a registry.
func New(cfg Config) (*Registry, error) {
	apiURL := strings.TrimRight(cfg.APIURL, "/")
	if apiURL != "" {
		u, err := url.Parse(apiURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, invalid("apiUrl %q is not an absolute url", cfg.APIURL)
		}
	}

	defaultID := cfg.IDAttribute
	if defaultID == "" {
		defaultID = DefaultIDAttribute
	}

	r := &Registry{
		apiURL:  apiURL,
		entries: make(map[string]*Entry, len(cfg.Types)),
	}

	for name, tc := range cfg.Types {
		if strings.TrimSpace(name) == "" {
			return nil, invalid("type name must not be empty")
		}
		entry := &Entry{
			Name:        name,
			URL:         tc.URL,
			IDAttribute: tc.IDAttribute,
			OneToMany:   append(Relations(nil), tc.OneToMany...),
			ForeignKey:  append(Relations(nil), tc.ForeignKey...),
			OrderBy:     tc.OrderBy,
			Parse:       tc.ParseFunc,
		}
		if entry.IDAttribute == "" {
			entry.IDAttribute = defaultID
		}
		if attr, _ := entry.Order(); entry.OrderBy != "" && attr == "" {
			return nil, invalid("type %q: orderBy %q names no attribute", name, entry.OrderBy)
		}
		if entry.Parse == nil && tc.Parse != "" {
			fn, err := compileParse(tc.Parse)
			if err != nil {
				return nil, invalid("type %q: parse: %v", name, err)
			}
			entry.Parse = fn
		}
		r.entries[name] = entry
		r.names = append(r.names, name)
	}
	sort.Strings(r.names)

	for _, name := range r.names {
		if err := r.validateRelations(r.entries[name]); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) validateRelations(e *Entry) error {
	seen := map[string]bool{}
	check := func(kind string, rels Relations) error {
		for _, rel := range rels {
			if rel.Attribute == "" {
				return invalid("type %q: %s attribute must not be empty", e.Name, kind)
			}
			if seen[rel.Attribute] {
				return invalid("type %q: attribute %q declared twice", e.Name, rel.Attribute)
			}
			seen[rel.Attribute] = true
			if _, ok := r.entries[rel.Type]; !ok {
				return invalid("type %q: %s %q references unknown type %q", e.Name, kind, rel.Attribute, rel.Type)
			}
		}
		return nil
	}
	if err := check("oneToMany", e.OneToMany); err != nil {
		return err
	}
	return check("foreignKey", e.ForeignKey)
}

// MustNew is like New but panics on error. Intended for tests and static schemas.
func MustNew(cfg Config) *Registry {
	r, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the entry for name or a *TypeError matching ErrUnknownType.
func (r *Registry) Lookup(name string) (*Entry, error) {
	if e, ok := r.entries[name]; ok {
		return e, nil
	}
	return nil, &TypeError{Type: name, Valid: r.Types()}
}

// Types returns the registered type names, sorted.
func (r *Registry) Types() []string {
	return append([]string(nil), r.names...)
}

// APIURL returns the base URL with any trailing slash removed.
func (r *Registry) APIURL() string {
	return r.apiURL
}

// Endpoint returns the absolute collection URL of a type.
func (r *Registry) Endpoint(name string) (string, error) {
	e, err := r.Lookup(name)
	if err != nil {
		return "", err
	}
	if e.URL == "" {
		return "", &EndpointError{Type: name}
	}
	return r.Resolve(e.URL), nil
}

// Resolve turns a path starting with "/" into an absolute URL under APIURL.
// Anything else is returned unchanged.
func (r *Registry) Resolve(path string) string {
	if strings.HasPrefix(path, "/") {
		return r.apiURL + path
	}
	return path
}
