// internal/domain/models/ideatypes.go
package models

// Canonical idea category identifiers.
const (
	CategoryInvention  = "invention"
	CategoryBusiness   = "business"
	CategoryCreative   = "creative"
	CategorySocial     = "social"
	CategoryResearch   = "research"
	CategoryTechnology = "technology"
)

// Categories is the full set of allowed Idea.Category values.
var Categories = []string{
	CategoryInvention,
	CategoryBusiness,
	CategoryCreative,
	CategorySocial,
	CategoryResearch,
	CategoryTechnology,
}

// Canonical idea stage identifiers.
const (
	StageConcept     = "concept"
	StageDevelopment = "development"
	StagePrototype   = "prototype"
	StageMarketReady = "market-ready"
	StageLaunched    = "launched"
)

// Stages is the full set of allowed Idea.Stage values.
var Stages = []string{
	StageConcept,
	StageDevelopment,
	StagePrototype,
	StageMarketReady,
	StageLaunched,
}

// Resource types shared by idea resource requests and contribution offers.
const (
	ResourceFunding     = "funding"
	ResourceExpertise   = "expertise"
	ResourceLabor       = "labor"
	ResourceEquipment   = "equipment"
	ResourcePartnership = "partnership"
	ResourceMentorship  = "mentorship"
)

// ResourceTypes is the single source of truth for resource type validation
// and schema enums.
var ResourceTypes = []string{
	ResourceFunding,
	ResourceExpertise,
	ResourceLabor,
	ResourceEquipment,
	ResourcePartnership,
	ResourceMentorship,
}

// DefaultCurrency is stored when a resource or offer omits its currency.
const DefaultCurrency = "$"

// MaxTags is the maximum number of tags an idea may carry.
const MaxTags = 10

// Contains reports whether v is one of the allowed values.
func Contains(allowed []string, v string) bool {
	for _, a := range allowed {
		if a == v {
			return true
		}
	}
	return false
}
