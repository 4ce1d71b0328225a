package mem0

import (
	"context"

	"github.com/bytedance/sonic"
)

// Claves de metadata.
const (
	metaKind     = "patientpal_kind"
	metaRecordID = "patientpal_record_id"
	metaPayload  = "patientpal_payload"
)

// recordStore guarda registros de un tipo (consulta, plan, explicación) como memorias.
type recordStore struct {
	c    *Client
	kind string
}

func (s recordStore) put(ctx context.Context, userID, recordID, text string, payload any) error {
	raw, err := sonic.MarshalString(payload)
	if err != nil {
		return err
	}
	return s.c.Add(ctx, userID, text, map[string]any{
		metaKind:     s.kind,
		metaRecordID: recordID,
		metaPayload:  raw,
	})
}

// payloads devuelve los JSON guardados de este tipo para el usuario, en el orden de la API.
func (s recordStore) payloads(ctx context.Context, userID string) ([]string, error) {
	mems, err := s.c.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(mems))
	for _, m := range mems {
		if kind, _ := m.Metadata[metaKind].(string); kind != s.kind {
			continue
		}
		if p, ok := m.Metadata[metaPayload].(string); ok && p != "" {
			out = append(out, p)
		}
	}
	return out, nil
}
