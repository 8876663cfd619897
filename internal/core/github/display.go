package github

import "time"

// DisplayDateLayout is how repository activity dates are shown
const DisplayDateLayout = "Jan 02, 2006"

// ToResponse maps an orchestrator result to the caller-facing shape.
// The activity date shown is the last push.
func ToResponse(result *ReposResult) *ReposResponse {
	resp := &ReposResponse{
		Repos:   make([]RepoDisplay, 0, len(result.Repos)),
		IsStale: result.IsStale,
	}

	for _, repo := range result.Repos {
		if repo == nil {
			continue
		}
		resp.Repos = append(resp.Repos, toDisplay(repo))
	}

	if result.LastUpdated != nil {
		formatted := result.LastUpdated.UTC().Format(time.RFC3339)
		resp.LastUpdated = &formatted
	}

	return resp
}

func toDisplay(repo *CachedRepo) RepoDisplay {
	topics := repo.Topics
	if topics == nil {
		topics = []string{}
	}

	display := RepoDisplay{
		Name:        repo.Name,
		Description: nonEmpty(repo.Description),
		HTMLURL:     repo.HTMLURL,
		Language:    nonEmpty(repo.Language),
		Stars:       repo.Stars,
		Forks:       repo.Forks,
		Topics:      topics,
	}

	if repo.PushedAt != nil {
		formatted := repo.PushedAt.UTC().Format(DisplayDateLayout)
		display.UpdatedAt = &formatted
	}

	return display
}

// nonEmpty collapses empty optional strings to nil
func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
