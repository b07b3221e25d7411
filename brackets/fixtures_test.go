package brackets

import (
	"io"
	"log/slog"
	"strconv"

	"github.com/Dosada05/tournament-standings/models"
)

var (
	teamA = team(1, "A")
	teamB = team(2, "B")
	teamC = team(3, "C")
	teamD = team(4, "D")
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func team(id int, name string) *models.Team {
	return &models.Team{TeamID: models.FlexInt(id), Name: name}
}

func edge(number int, t *models.Team) models.ParticipantEdge {
	return models.ParticipantEdge{Node: models.MatchParticipant{
		TeamNumber: number,
		Participant: &models.Participant{
			Team: t,
			User: &models.User{UserID: models.FlexInt(int(t.TeamID) * 100), Name: t.Name + " captain"},
		},
	}}
}

func played(id string, round int, t1, t2 *models.Team, s1, s2 int) models.Match {
	return models.Match{
		MatchID: id,
		Round:   round,
		Status:  models.MatchStatusCompleted,
		Score1:  strconv.Itoa(s1),
		Score2:  strconv.Itoa(s2),
		Participants: models.ParticipantConnection{
			Edges: []models.ParticipantEdge{edge(1, t1), edge(2, t2)},
		},
	}
}

func scheduled(id string, round int, t1, t2 *models.Team) models.Match {
	m := played(id, round, t1, t2, 0, 0)
	m.Status = models.MatchStatusScheduled
	m.Score1, m.Score2 = "", ""
	return m
}

func tagged(m models.Match, bt models.BracketType, seed int) models.Match {
	m.BracketType = bt
	m.Seed = seed
	return m
}

func byeFor(id string, round int, t *models.Team) models.Match {
	return models.Match{
		MatchID: id,
		Round:   round,
		Status:  models.MatchStatusBye,
		Score1:  "21",
		Participants: models.ParticipantConnection{
			Edges: []models.ParticipantEdge{edge(1, t)},
		},
	}
}

func normalize(ms ...models.Match) []NormalizedMatch {
	return NormalizeAll(discardLogger(), ms)
}

// exampleRoundRobin is a four-team round robin where A wins every match.
func exampleRoundRobin() []models.Match {
	return []models.Match{
		played("1", 1, teamA, teamB, 21, 15),
		played("2", 1, teamA, teamC, 21, 10),
		played("3", 1, teamA, teamD, 21, 5),
		played("4", 1, teamB, teamC, 21, 18),
		played("5", 1, teamB, teamD, 10, 21),
		played("6", 1, teamC, teamD, 15, 21),
	}
}

func teamOrder(standings []models.Standing) []string {
	out := make([]string, len(standings))
	for i, s := range standings {
		out[i] = s.Team
	}
	return out
}
