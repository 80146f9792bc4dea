package names

import (
	"log"
	"strings"
	"sync"
)

// DefaultHelperMarker identifies the bundled stats helper by process name.
const DefaultHelperMarker = "osmcore"

// Resolver maps an owning uid to a human label.
type Resolver interface {
	LabelFor(uid int, owner string) (string, error)
}

// Cache memoizes raw process name -> display label for the life of the service.
// Entries are keyed by raw name only; a later sample with the same name but a
// different uid gets the first label.
type Cache struct {
	resolver Resolver
	selfUID  int
	marker   string

	mu      sync.Mutex
	entries map[string]string
}

func NewCache(r Resolver, selfUID int, helperMarker string) *Cache {
	if helperMarker == "" {
		helperMarker = DefaultHelperMarker
	}
	return &Cache{
		resolver: r,
		selfUID:  selfUID,
		marker:   strings.ToLower(helperMarker),
		entries:  make(map[string]string),
	}
}

// Resolve returns the cached label for rawName, computing it on first sight.
// The helper process may report a uid that differs from ours, so it is always
// resolved as ourselves.
func (c *Cache) Resolve(rawName string, uid int, owner string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if label, ok := c.entries[rawName]; ok {
		return label
	}

	if c.isHelper(rawName) {
		uid = c.selfUID
	}

	label := rawName
	if c.resolver != nil {
		identity, err := c.resolver.LabelFor(uid, owner)
		if err != nil {
			log.Printf("warning: resolving %q (uid %d): %v", rawName, uid, err)
		} else {
			label = compose(rawName, identity)
		}
	}
	c.entries[rawName] = label
	return label
}

// Exists reports whether rawName has already been resolved.
func (c *Cache) Exists(rawName string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[rawName]
	return ok
}

// Len is the number of cached names.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) isHelper(rawName string) bool {
	return strings.Contains(strings.ToLower(rawName), c.marker)
}

func compose(rawName, identity string) string {
	identity = strings.TrimSpace(identity)
	if identity == "" || identity == rawName {
		return rawName
	}
	return rawName + " (" + identity + ")"
}
