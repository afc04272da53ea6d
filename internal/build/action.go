// Package build turns segment entries into build actions.
//
// Generation is a pure function of its inputs: every emission returns the
// actions, objects and tracked units it produced, and the caller merges
// them. Nothing is executed here; the actions are rendered into a ninja
// file for an external executor.
package build

import (
	"fmt"
	"path"
	"slices"

	"github.com/andresj-sanchez/SR2/internal/ninja"
	"github.com/andresj-sanchez/SR2/internal/objpath"
)

// Action is one build edge.
type Action struct {
	Outputs         []string
	Rule            string
	Inputs          []string
	Implicit        []string
	Variables       []ninja.Var
	ImplicitOutputs []string
}

// Edge converts the action into its ninja form.
func (a Action) Edge() ninja.Build {
	return ninja.Build{
		Outputs:         a.Outputs,
		Rule:            a.Rule,
		Inputs:          a.Inputs,
		Implicit:        a.Implicit,
		ImplicitOutputs: a.ImplicitOutputs,
		Variables:       a.Variables,
	}
}

// Var returns the value bound to key, or "".
func (a Action) Var(key string) string {
	for _, v := range a.Variables {
		if v.Key == key {
			return v.Value
		}
	}
	return ""
}

// ObjectSet is the set of objects handed to the linker. It only grows.
type ObjectSet struct {
	paths map[string]struct{}
}

// NewObjectSet returns an empty set.
func NewObjectSet() *ObjectSet {
	return &ObjectSet{paths: make(map[string]struct{})}
}

// Add inserts p if it is an object file. It reports whether p was added.
func (s *ObjectSet) Add(p string) bool {
	if !isObject(p) {
		return false
	}
	if _, ok := s.paths[p]; ok {
		return false
	}
	s.paths[p] = struct{}{}
	return true
}

// Contains reports whether p is in the set.
func (s *ObjectSet) Contains(p string) bool {
	_, ok := s.paths[p]
	return ok
}

// Len returns the number of objects.
func (s *ObjectSet) Len() int { return len(s.paths) }

// Sorted returns the objects in lexical order.
func (s *ObjectSet) Sorted() []string {
	out := make([]string, 0, len(s.paths))
	for p := range s.paths {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

func isObject(p string) bool {
	return path.Ext(p) == objpath.Ext
}

// Tracked is an action whose object takes part in progress tracking.
type Tracked struct {
	// Object is the resolved output of the tracked action.
	Object string
	// Source is the primary source, or "" when unknown.
	Source string
	// Twin is the working-tree copy of Object in dual-tree mode.
	Twin string
}

// Emission is what one emission call produced.
type Emission struct {
	Actions []Action
	Objects []string
	Tracked []Tracked
}

func (e *Emission) merge(o Emission) {
	e.Actions = append(e.Actions, o.Actions...)
	e.Objects = append(e.Objects, o.Objects...)
	e.Tracked = append(e.Tracked, o.Tracked...)
}

// Graph is the accumulated result of a generation pass.
type Graph struct {
	Actions []Action
	Objects *ObjectSet
	Tracked []Tracked
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{Objects: NewObjectSet()}
}

// Merge appends an emission to the graph.
func (g *Graph) Merge(e Emission) {
	g.Actions = append(g.Actions, e.Actions...)
	for _, o := range e.Objects {
		g.Objects.Add(o)
	}
	g.Tracked = append(g.Tracked, e.Tracked...)
}

// Append adds actions that produce no tracked objects, such as the link stage.
func (g *Graph) Append(actions ...Action) {
	g.Actions = append(g.Actions, actions...)
}

// UnsupportedSegmentKindError aborts generation when no rule builds a segment.
type UnsupportedSegmentKindError struct {
	Kind string
}

func (e *UnsupportedSegmentKindError) Error() string {
	return fmt.Sprintf("unsupported build segment type %s", e.Kind)
}
