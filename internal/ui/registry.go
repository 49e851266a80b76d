// Package ui resolves pointer interactions against a layout reported by the
// rendering layer and turns them into storefront actions.
package ui

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

var (
	ErrNoTarget      = errors.New("no actionable element at pointer")
	ErrInvalidLayout = errors.New("invalid layout")
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains reports whether p lies inside r grown by tol on every side.
func (r Rect) Contains(p Point, tol float64) bool {
	if r.Empty() {
		return false
	}
	return p.X >= r.X-tol && p.X <= r.X+r.Width+tol &&
		p.Y >= r.Y-tol && p.Y <= r.Y+r.Height+tol
}

type Role string

const (
	RoleNone           Role = ""
	RoleAddToCart      Role = "add-to-cart"
	RoleToggleFavorite Role = "toggle-favorite"
	RoleRemoveFavorite Role = "remove-favorite"
	RoleCartIncrease   Role = "cart-increase"
	RoleCartDecrease   Role = "cart-decrease"
	RoleCartRemove     Role = "cart-remove"
	RoleCheckout       Role = "checkout"
	RoleSignOut        Role = "sign-out"
)

func (r Role) Valid() bool {
	switch r {
	case RoleNone, RoleAddToCart, RoleToggleFavorite, RoleRemoveFavorite,
		RoleCartIncrease, RoleCartDecrease, RoleCartRemove, RoleCheckout, RoleSignOut:
		return true
	}
	return false
}

// Element is one node of the rendered tree. Elements with a role are
// actionable; the rest only contribute geometry and ancestry. Z is the paint
// order: higher is on top, ties go to the element listed later.
type Element struct {
	ID        string `json:"id"`
	ParentID  string `json:"parent_id,omitempty"`
	Role      Role   `json:"role,omitempty"`
	ProductID string `json:"product_id,omitempty"`
	Bounds    Rect   `json:"bounds"`
	Z         int    `json:"z"`
}

func (e Element) Actionable() bool { return e.Role != RoleNone }

type PointerEvent struct {
	Point    Point  `json:"point"`
	TargetID string `json:"target_id,omitempty"`
}

type Strategy string

const (
	StrategyBounds  Strategy = "bounds"
	StrategyTopmost Strategy = "topmost"
	StrategyTarget  Strategy = "target"
)

type Resolution struct {
	Element  Element  `json:"element"`
	Strategy Strategy `json:"strategy"`
}

// Registry caches the interactive descriptors of one rendered page. The cache
// only changes on Rebuild.
type Registry struct {
	tolerance float64

	mu sync.RWMutex
	// byID indexes the tree for ancestor walks.
	byID map[string]int
	// painted holds every element, topmost first.
	painted []Element
	// actionable is the subset of painted with a role.
	actionable []Element
}

func NewRegistry(tolerance float64) *Registry {
	return &Registry{tolerance: tolerance, byID: map[string]int{}}
}

// Rebuild replaces the cached layout. On error the previous layout is kept.
func (r *Registry) Rebuild(elements []Element) error {
	byID := make(map[string]int, len(elements))
	for i, e := range elements {
		if e.ID == "" {
			return fmt.Errorf("%w: element %d has no id", ErrInvalidLayout, i)
		}
		if _, dup := byID[e.ID]; dup {
			return fmt.Errorf("%w: duplicate element id %s", ErrInvalidLayout, e.ID)
		}
		if !e.Role.Valid() {
			return fmt.Errorf("%w: element %s has unknown role %q", ErrInvalidLayout, e.ID, e.Role)
		}
		byID[e.ID] = i
	}

	order := make([]int, len(elements))
	for i := range order {
		order[i] = i
	}
	// topmost first: higher Z, then later in document order
	slices.SortStableFunc(order, func(a, b int) int {
		if elements[a].Z != elements[b].Z {
			return elements[b].Z - elements[a].Z
		}
		return b - a
	})

	painted := make([]Element, 0, len(elements))
	var actionable []Element
	for _, i := range order {
		painted = append(painted, elements[i])
		if elements[i].Actionable() {
			actionable = append(actionable, elements[i])
		}
	}

	tree := make(map[string]int, len(painted))
	for i, e := range painted {
		tree[e.ID] = i
	}

	r.mu.Lock()
	r.byID = tree
	r.painted = painted
	r.actionable = actionable
	r.mu.Unlock()
	return nil
}

// Resolve maps a pointer event to the actionable element it hits, trying in
// order: the cached actionable boxes (exact, then with tolerance), the closest actionable
// ancestor of the topmost element under the pointer, and the closest
// actionable ancestor of the reported target.
func (r *Registry) Resolve(ev PointerEvent) (Resolution, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// an exact hit beats a neighbour's tolerance margin
	for _, tol := range []float64{0, r.tolerance} {
		for _, e := range r.actionable {
			if e.Bounds.Contains(ev.Point, tol) {
				return Resolution{Element: e, Strategy: StrategyBounds}, nil
			}
		}
	}

	for _, e := range r.painted {
		if !e.Bounds.Contains(ev.Point, 0) {
			continue
		}
		if a, ok := r.closestActionable(e.ID); ok {
			return Resolution{Element: a, Strategy: StrategyTopmost}, nil
		}
		break
	}

	if ev.TargetID != "" {
		if a, ok := r.closestActionable(ev.TargetID); ok {
			return Resolution{Element: a, Strategy: StrategyTarget}, nil
		}
	}

	return Resolution{}, ErrNoTarget
}

// closestActionable walks from id up through its parents, including id
// itself. Parent cycles end the walk.
func (r *Registry) closestActionable(id string) (Element, bool) {
	seen := map[string]bool{}
	for id != "" && !seen[id] {
		seen[id] = true
		i, ok := r.byID[id]
		if !ok {
			return Element{}, false
		}
		e := r.painted[i]
		if e.Actionable() {
			return e, true
		}
		id = e.ParentID
	}
	return Element{}, false
}

// ProductIDs lists the distinct products referenced by the layout, in paint
// order.
func (r *Registry) ProductIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var ids []string
	for _, e := range r.painted {
		if e.ProductID != "" && !slices.Contains(ids, e.ProductID) {
			ids = append(ids, e.ProductID)
		}
	}
	return ids
}
