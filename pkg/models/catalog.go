package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Package is a purchasable service tier and the fixed commission it pays to the referrer.
type Package struct {
	Name       string `json:"name"`
	Commission int64  `json:"commission"`
}

// Catalog maps package names to packages. Lookups are case-insensitive.
type Catalog struct {
	packages map[string]Package
}

// DefaultPackages is the catalog used when none is configured.
var DefaultPackages = []Package{
	{Name: "Basic", Commission: 200},
	{Name: "Standard", Commission: 500},
	{Name: "Premium", Commission: 1000},
}

// NewCatalog creates a Catalog from the given packages.
func NewCatalog(packages ...Package) *Catalog {
	c := &Catalog{packages: make(map[string]Package, len(packages))}
	for _, p := range packages {
		c.packages[normalizePackage(p.Name)] = p
	}
	return c
}

// ParseCatalog parses a "Name=commission,Name=commission" list.
func ParseCatalog(list string) (*Catalog, error) {
	var packages []Package
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("invalid package definition %q", part)
		}
		commission, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil || commission < 0 {
			return nil, fmt.Errorf("invalid commission for package %q", name)
		}
		packages = append(packages, Package{Name: strings.TrimSpace(name), Commission: commission})
	}
	if len(packages) == 0 {
		return nil, fmt.Errorf("no packages defined")
	}
	return NewCatalog(packages...), nil
}

// Lookup returns the package with the given name.
func (c *Catalog) Lookup(name string) (Package, bool) {
	p, ok := c.packages[normalizePackage(name)]
	return p, ok
}

// Packages returns all packages ordered by name.
func (c *Catalog) Packages() []Package {
	out := make([]Package, 0, len(c.packages))
	for _, p := range c.packages {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SamePackage reports whether a and b name the same package.
func SamePackage(a, b string) bool {
	return normalizePackage(a) == normalizePackage(b)
}

func normalizePackage(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
