// internal/domain/models/ideastatus.go
package models

// Idea moderation and lifecycle states.
const (
	IdeaDraft         = "draft"
	IdeaPendingReview = "pending-review"
	IdeaActive        = "active"
	IdeaFunded        = "funded"
	IdeaCompleted     = "completed"
	IdeaArchived      = "archived"
	IdeaRejected      = "rejected"
)

// IdeaStatuses is the full set of allowed Idea.Status values.
var IdeaStatuses = []string{
	IdeaDraft,
	IdeaPendingReview,
	IdeaActive,
	IdeaFunded,
	IdeaCompleted,
	IdeaArchived,
	IdeaRejected,
}

// Actor identifies who is asking for a status transition.
type Actor int

const (
	ActorCreator Actor = iota
	ActorModerator
)

// ideaTransitions lists the forward moves allowed from each state and who may
// make them. States missing from the map are terminal.
var ideaTransitions = map[string]map[string]Actor{
	IdeaDraft: {
		IdeaPendingReview: ActorCreator,
	},
	IdeaPendingReview: {
		IdeaActive:   ActorModerator,
		IdeaRejected: ActorModerator,
	},
	IdeaActive: {
		IdeaFunded:    ActorCreator,
		IdeaCompleted: ActorCreator,
		IdeaArchived:  ActorCreator,
	},
	IdeaFunded: {
		IdeaCompleted: ActorCreator,
		IdeaArchived:  ActorCreator,
	},
	IdeaCompleted: {
		IdeaArchived: ActorCreator,
	},
}

// CanTransition reports whether actor may move an idea from one status to another.
func CanTransition(from, to string, actor Actor) bool {
	next, ok := ideaTransitions[from]
	if !ok {
		return false
	}
	who, ok := next[to]
	return ok && who == actor
}
