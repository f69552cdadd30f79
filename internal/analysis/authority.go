package analysis

import "github.com/AI-Template-SDK/senso-visibility/internal/models"

// AuthorityMentionThreshold is the mention count at which a cited result counts as authority
const AuthorityMentionThreshold = 3

// ClassifyAuthority assigns the authority tier of a model result
func ClassifyAuthority(isCited bool, mentionCount int) models.AuthorityType {
	switch {
	case mentionCount <= 0:
		return models.AuthorityNone
	case isCited && mentionCount >= AuthorityMentionThreshold:
		return models.AuthorityAuthority
	case isCited:
		return models.AuthorityAlternative
	default:
		return models.AuthorityMentioned
	}
}
