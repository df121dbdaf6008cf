package gesture

import "avatar-studio/models"

// Kind is the effect a caller must apply for a gesture event
type Kind int

const (
	// Ignored events have no effect; Reason says why
	Ignored Kind = iota
	// Tracked events only changed gesture state (hover, ghost, stroke points)
	Tracked
	Place
	Move
	RemoveInstance
	RemoveCatalogItem
	CommitStroke
	DiscardStroke
)

var kindNames = map[Kind]string{
	Ignored:           "ignored",
	Tracked:           "tracked",
	Place:             "place",
	Move:              "move",
	RemoveInstance:    "removeInstance",
	RemoveCatalogItem: "removeCatalogItem",
	CommitStroke:      "commitStroke",
	DiscardStroke:     "discardStroke",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Reason explains an ignored event
type Reason string

const (
	ReasonBusy            Reason = "busy"
	ReasonWrongState      Reason = "wrong_state"
	ReasonNoPayload       Reason = "no_payload"
	ReasonItemDragActive  Reason = "item_drag_active"
	ReasonDrawingActive   Reason = "drawing_active"
	ReasonOutsideCanvas   Reason = "outside_canvas"
	ReasonAlreadyPlaced   Reason = "already_placed"
	ReasonSnappedView     Reason = "snapped_view"
	ReasonUnknownInstance Reason = "unknown_instance"
	ReasonNotDrawingView  Reason = "not_drawing_view"
)

// Rollback restores an item moved by a gesture that did not finish
type Rollback struct {
	InstanceID string       `json:"instanceId"`
	Position   models.Point `json:"position"`
}

// Decision is the outcome of one gesture event
type Decision struct {
	Kind       Kind   `json:"kind"`
	Reason     Reason `json:"reason,omitempty"`
	CatalogID  string `json:"catalogId,omitempty"`
	InstanceID string `json:"instanceId,omitempty"`
	// Drop is canvas-local pixels, set for Place
	Drop *models.Point `json:"drop,omitempty"`
	// Position is the normalized top-left, set for Move
	Position models.Point `json:"position"`
	// Points are the normalized stroke samples, set for CommitStroke
	Points   []models.Point `json:"-"`
	Rollback *Rollback      `json:"rollback,omitempty"`
}

func reject(r Reason) Decision { return Decision{Kind: Ignored, Reason: r} }

func tracked() Decision { return Decision{Kind: Tracked} }
