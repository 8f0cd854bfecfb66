package nakama

import (
	"fmt"

	"smor/internal/app"
	"smor/internal/domain"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

func stringList(in []string) []interface{} {
	out := make([]interface{}, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

func logEntryToStruct(e domain.LogEntry) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"seq":     e.Seq,
		"message": e.Message,
		"type":    string(e.Type),
		"at":      e.At.UnixMilli(),
	})
}

func cardToMap(c domain.Card) map[string]interface{} {
	return map[string]interface{}{
		"id":           c.ID,
		"name":         c.Label(),
		"icon":         c.Icon,
		"intoxication": c.Intoxication,
		"score":        c.Score,
		"text":         c.Text,
	}
}

// snapshotToStruct encodes s as seen by viewer: only the viewer's own hand is included.
func snapshotToStruct(s domain.Snapshot, viewer string) (*structpb.Struct, error) {
	players := make([]interface{}, 0, len(s.Players))
	for _, p := range s.Players {
		m := map[string]interface{}{
			"id":                p.ID,
			"name":              p.Name,
			"human":             p.Human,
			"intoxication":      p.Intoxication,
			"score":             p.Score,
			"hand_size":         p.HandSize,
			"npcs":              stringList(p.NPCs),
			"status":            string(p.Status),
			"dice_bonus":        p.DiceBonus,
			"has_penalty_token": p.HasPenaltyToken,
		}
		if p.ID == viewer {
			hand := make([]interface{}, len(p.Hand))
			for i, c := range p.Hand {
				hand[i] = cardToMap(c)
			}
			m["hand"] = hand
		}
		players = append(players, m)
	}
	return structpb.NewStruct(map[string]interface{}{
		"game_id":        s.GameID,
		"phase":          s.Phase.String(),
		"place":          s.Place,
		"place_effects":  stringList(s.PlaceEffects),
		"current_player": s.CurrentPlayer,
		"players":        players,
		"town":           stringList(s.Town),
		"deck_size":      s.DeckSize,
		"suspended":      stringList(s.Suspended),
		"finished":       s.Finished,
	})
}

func decisionToStruct(p app.DecisionPayload) (*structpb.Struct, error) {
	d := p.Decision
	return structpb.NewStruct(map[string]interface{}{
		"decision_id": d.ID,
		"player_id":   d.PlayerID,
		"kind":        string(d.Kind),
		"topic":       d.Topic,
		"prompt":      d.Prompt,
		"options":     stringList(d.Options),
		"npcs":        stringList(d.NPCs),
		"optional":    d.Optional,
		"ticket":      p.Ticket,
	})
}

func resultToStruct(r app.Result) (*structpb.Struct, error) {
	board := make([]interface{}, len(r.Leaderboard))
	for i, s := range r.Leaderboard {
		board[i] = map[string]interface{}{
			"rank":         s.Rank,
			"player_id":    s.PlayerID,
			"name":         s.Name,
			"score":        s.Score,
			"intoxication": s.Intoxication,
		}
	}
	return structpb.NewStruct(map[string]interface{}{
		"game_id":     r.GameID,
		"winner":      r.Winner.PlayerID,
		"leaderboard": board,
	})
}

// resolveRequest is a decoded OpResolveDecision message.
type resolveRequest struct {
	DecisionID string
	Ticket     string
	Choice     app.Choice
}

// parseResolveRequest decodes the client's structpb payload:
// {"decision_id", "ticket", "action", "indices", "index"}.
func parseResolveRequest(data []byte) (resolveRequest, error) {
	s := &structpb.Struct{}
	if err := proto.Unmarshal(data, s); err != nil {
		return resolveRequest{}, fmt.Errorf("invalid resolve payload: %w", err)
	}
	fields := s.GetFields()
	req := resolveRequest{
		DecisionID: fields["decision_id"].GetStringValue(),
		Ticket:     fields["ticket"].GetStringValue(),
		Choice: app.Choice{
			Action: app.ActionKind(fields["action"].GetStringValue()),
			Index:  int(fields["index"].GetNumberValue()),
		},
	}
	for _, v := range fields["indices"].GetListValue().GetValues() {
		req.Choice.Indices = append(req.Choice.Indices, int(v.GetNumberValue()))
	}
	if req.DecisionID == "" && req.Ticket == "" {
		return resolveRequest{}, fmt.Errorf("invalid resolve payload: decision_id or ticket is required")
	}
	return req, nil
}

// matchLabel renders the searchable match label.
func matchLabel(open int, phase string) (string, error) {
	label, err := structpb.NewStruct(map[string]interface{}{
		"game":  "smor",
		"open":  open,
		"phase": phase,
	})
	if err != nil {
		return "", err
	}
	b, err := (&protojson.MarshalOptions{EmitUnpopulated: true}).Marshal(label)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
