package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/fortuna/augur/internal/store"
	"github.com/fortuna/augur/internal/store/repository"
)

// teamNicknames maps common team names to abbreviations, so callers can say
// "lakers" or "trail blazers" instead of the three-letter code.
var teamNicknames = map[string]string{
	"lakers": "LAL", "celtics": "BOS", "warriors": "GSW", "heat": "MIA",
	"bucks": "MIL", "nuggets": "DEN", "suns": "PHX", "76ers": "PHI", "sixers": "PHI",
	"mavericks": "DAL", "mavs": "DAL", "clippers": "LAC", "grizzlies": "MEM",
	"pelicans": "NOP", "blazers": "POR", "trail blazers": "POR",
	"kings": "SAC", "spurs": "SAS", "thunder": "OKC", "jazz": "UTA",
	"timberwolves": "MIN", "wolves": "MIN", "bulls": "CHI", "cavaliers": "CLE",
	"cavs": "CLE", "hawks": "ATL", "hornets": "CHA", "magic": "ORL",
	"pacers": "IND", "pistons": "DET", "raptors": "TOR", "wizards": "WAS",
	"nets": "BKN", "knicks": "NYK", "rockets": "HOU",
}

// TeamService handles team lookup and name resolution
type TeamService struct {
	teamRepo *repository.TeamRepository
}

// NewTeamService creates a new team service
func NewTeamService(db *store.Database) *TeamService {
	return &TeamService{teamRepo: repository.NewTeamRepository(db)}
}

// GetAll returns all active teams
func (s *TeamService) GetAll(ctx context.Context) ([]*store.Team, error) {
	return s.teamRepo.GetAll(ctx)
}

// Resolve turns a user-supplied team name, nickname or abbreviation into the
// stored team record.
func (s *TeamService) Resolve(ctx context.Context, name string) (*store.Team, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, fmt.Errorf("empty team name")
	}

	if abbr := ResolveAbbreviation(trimmed); abbr != "" {
		return s.teamRepo.GetByAbbreviation(ctx, abbr)
	}

	matches, err := s.teamRepo.SearchByName(ctx, trimmed)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("team not found: %s", name)
	}
	return matches[0], nil
}

// ResolveAbbreviation maps a name or nickname to a three-letter code, or ""
// when the name is not recognized. Pure lookup, no database access.
func ResolveAbbreviation(name string) string {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) == 3 {
		upper := strings.ToUpper(trimmed)
		for _, abbr := range teamNicknames {
			if abbr == upper {
				return upper
			}
		}
	}

	lower := strings.ToLower(trimmed)
	if abbr, ok := teamNicknames[lower]; ok {
		return abbr
	}
	for nickname, abbr := range teamNicknames {
		if strings.Contains(lower, nickname) {
			return abbr
		}
	}
	return ""
}
