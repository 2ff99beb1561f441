package cache

import "encoding/json"

// Namespace identifiers. Static content namespaces hold fetched document
// bodies; cms-* namespaces hold backend entity records and listings.
const (
	NamespaceLessonContent = "lesson-content"
	NamespaceCheatSheets   = "cheat-sheets"
	NamespaceMatrices      = "matrices"
	NamespaceProjects      = "projects"
	NamespaceCourses       = "cms-courses"
	NamespaceModules       = "cms-modules"
	NamespaceLessons       = "cms-lessons"
	NamespaceMedia         = "cms-media"
)

// Sentinel identifiers for collection-level entries. Distinct from any
// entity id, so a cached listing and cached entities coexist without
// colliding.
const (
	CollectionID = "all"
	SingletonID  = "main"
)

// ContentNamespace scopes get/set/remove to one fixed namespace
type ContentNamespace struct {
	store *Store
	name  string
}

// Get returns the cached value for id in this namespace
func (n ContentNamespace) Get(id string) (json.RawMessage, bool) {
	return n.store.Get(n.name, id)
}

// Set caches a value for id in this namespace
func (n ContentNamespace) Set(id string, data json.RawMessage) {
	n.store.Set(n.name, id, data)
}

// Remove drops the entry for id in this namespace
func (n ContentNamespace) Remove(id string) {
	n.store.Remove(n.name, id)
}

// SingletonNamespace holds exactly one document under a fixed sentinel
type SingletonNamespace struct {
	store *Store
	name  string
}

// Get returns the namespace's single cached document
func (n SingletonNamespace) Get() (json.RawMessage, bool) {
	return n.store.Get(n.name, SingletonID)
}

// Set caches the namespace's single document
func (n SingletonNamespace) Set(data json.RawMessage) {
	n.store.Set(n.name, SingletonID, data)
}

// Remove drops the namespace's single document
func (n SingletonNamespace) Remove() {
	n.store.Remove(n.name, SingletonID)
}

// CMSNamespace adds collection-level entries and bulk clearing on top of
// per-entity caching, for backend entity kinds subject to the
// invalidation cascade
type CMSNamespace struct {
	ContentNamespace
}

// GetAll returns the cached collection listing
func (n CMSNamespace) GetAll() (json.RawMessage, bool) {
	return n.Get(CollectionID)
}

// SetAll caches the collection listing
func (n CMSNamespace) SetAll(data json.RawMessage) {
	n.Set(CollectionID, data)
}

// Clear drops every entry in this namespace, per-entity and collection
// alike
func (n CMSNamespace) Clear() {
	n.store.ClearNamespace(n.name)
}

// Caches bundles every typed namespace over one store
type Caches struct {
	LessonContent ContentNamespace
	CheatSheets   ContentNamespace
	Matrices      ContentNamespace
	Projects      SingletonNamespace

	Courses CMSNamespace
	Modules CMSNamespace
	Lessons CMSNamespace
	Media   CMSNamespace
}

// NewCaches builds the typed namespaces over store
func NewCaches(store *Store) *Caches {
	cms := func(name string) CMSNamespace {
		return CMSNamespace{ContentNamespace{store: store, name: name}}
	}
	return &Caches{
		LessonContent: ContentNamespace{store: store, name: NamespaceLessonContent},
		CheatSheets:   ContentNamespace{store: store, name: NamespaceCheatSheets},
		Matrices:      ContentNamespace{store: store, name: NamespaceMatrices},
		Projects:      SingletonNamespace{store: store, name: NamespaceProjects},
		Courses:       cms(NamespaceCourses),
		Modules:       cms(NamespaceModules),
		Lessons:       cms(NamespaceLessons),
		Media:         cms(NamespaceMedia),
	}
}
