package staticdata

import (
	"fmt"
	"os"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/cfbwatch/scoreboard/internal/domain/teamref"
	"github.com/cfbwatch/scoreboard/internal/domain/teamstats"
)

// Loader reads the local reference datasets: team metadata plus offense and
// defense season statistics. These files change rarely and are loaded once;
// a missing or malformed file is fatal so the process never serves partial
// team metadata silently.
type Loader struct {
	teamInfoPath string
	offensePath  string
	defensePath  string
	logoDenylist map[string]struct{}
}

func NewLoader(teamInfoPath, offensePath, defensePath string, logoDenylist []string) *Loader {
	denylist := make(map[string]struct{}, len(logoDenylist))
	for _, logo := range logoDenylist {
		trimmed := strings.TrimSpace(logo)
		if trimmed == "" {
			continue
		}
		denylist[trimmed] = struct{}{}
	}
	return &Loader{
		teamInfoPath: teamInfoPath,
		offensePath:  offensePath,
		defensePath:  defensePath,
		logoDenylist: denylist,
	}
}

type rawTeamInfo struct {
	ID       int64    `json:"id"`
	School   string   `json:"school"`
	Logos    []string `json:"logos"`
	Color    string   `json:"color"`
	AltColor string   `json:"alt_color"`
}

type rawStatLine struct {
	TeamID      int64   `json:"id"`
	TotalRank   int     `json:"total_rank"`
	TotalYPG    float64 `json:"total_ypg"`
	RushRank    int     `json:"rush_rank"`
	RushYPG     float64 `json:"rush_ypg"`
	PassRank    int     `json:"pass_rank"`
	PassYPG     float64 `json:"pass_ypg"`
	ScoringRank int     `json:"scoring_rank"`
	ScoringAvg  float64 `json:"scoring_avg"`
}

// TeamInfo loads the team reference dataset. Entries without a logo or with
// a denylisted logo URL are dropped; colors are validated and logo URLs
// forced to https.
func (l *Loader) TeamInfo() ([]teamref.TeamInfo, error) {
	raw, err := os.ReadFile(l.teamInfoPath)
	if err != nil {
		return nil, fmt.Errorf("read team info dataset %s: %w", l.teamInfoPath, err)
	}

	var items []rawTeamInfo
	if err := sonic.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode team info dataset %s: %w", l.teamInfoPath, err)
	}

	out := make([]teamref.TeamInfo, 0, len(items))
	for _, item := range items {
		if len(item.Logos) == 0 {
			continue
		}
		logo := item.Logos[0]
		if _, denied := l.logoDenylist[logo]; denied {
			continue
		}
		out = append(out, teamref.TeamInfo{
			ID:       item.ID,
			School:   item.School,
			Logo:     strings.Replace(logo, "http://", "https://", 1),
			Color:    teamref.ValidateColor(item.Color),
			AltColor: teamref.ValidateColor(item.AltColor),
		})
	}
	return out, nil
}

// OffenseStats loads per-team offensive season stats keyed by team id.
func (l *Loader) OffenseStats() (map[int64]teamstats.StatLine, error) {
	return l.statLines(l.offensePath)
}

// DefenseStats loads per-team defensive season stats keyed by team id.
func (l *Loader) DefenseStats() (map[int64]teamstats.StatLine, error) {
	return l.statLines(l.defensePath)
}

func (l *Loader) statLines(path string) (map[int64]teamstats.StatLine, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read team stats dataset %s: %w", path, err)
	}

	var items []rawStatLine
	if err := sonic.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode team stats dataset %s: %w", path, err)
	}

	out := make(map[int64]teamstats.StatLine, len(items))
	for _, item := range items {
		out[item.TeamID] = teamstats.StatLine{
			TeamID:      item.TeamID,
			TotalRank:   item.TotalRank,
			TotalYPG:    item.TotalYPG,
			RushRank:    item.RushRank,
			RushYPG:     item.RushYPG,
			PassRank:    item.PassRank,
			PassYPG:     item.PassYPG,
			ScoringRank: item.ScoringRank,
			ScoringAvg:  item.ScoringAvg,
		}
	}
	return out, nil
}
