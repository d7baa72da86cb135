package services

import (
	"context"
	"encoding/json"
	"fmt"

	"coffeeshop/db"
)

const outboundRole = "system/outbound"

// MessageLog records what the shop sent to customers.
type MessageLog struct {
	db db.DBTX
}

func NewMessageLog(conn db.DBTX) *MessageLog {
	return &MessageLog{db: conn}
}

// SaveOutboundMessage persists an outbound system message (e.g. order confirmation).
func (m *MessageLog) SaveOutboundMessage(ctx context.Context, chatID int64, content string, meta map[string]interface{}) error {
	metaJSON := "{}"
	if len(meta) > 0 {
		b, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("marshal meta: %w", err)
		}
		metaJSON = string(b)
	}
	_, err := m.db.Exec(ctx, `
		INSERT INTO messages (chat_id, role, content, meta)
		VALUES ($1, $2, $3, $4::jsonb)`,
		chatID, outboundRole, content, metaJSON,
	)
	return err
}

// ConfirmationSent reports whether a confirmation for orderID was already logged.
func (m *MessageLog) ConfirmationSent(ctx context.Context, orderID string) (bool, error) {
	var count int
	err := m.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM messages
		WHERE role = $1 AND meta->>'sent_via' = 'order_confirmation' AND meta->>'order_id' = $2`,
		outboundRole, orderID,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
