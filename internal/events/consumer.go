package events

import (
	"encoding/json"
	"log/slog"

	"github.com/IBM/sarama"
)

// TallyHandler is a sarama.ConsumerGroupHandler that feeds CitySelected
// messages into a Tally.
type TallyHandler struct {
	tally  *Tally
	logger *slog.Logger
}

func NewTallyHandler(tally *Tally, logger *slog.Logger) *TallyHandler {
	return &TallyHandler{tally: tally, logger: logger}
}

func (h *TallyHandler) Setup(_ sarama.ConsumerGroupSession) error   { return nil }
func (h *TallyHandler) Cleanup(_ sarama.ConsumerGroupSession) error { return nil }

func (h *TallyHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		h.handle(msg)
		// Broken payloads are marked too; redelivering them would never succeed.
		sess.MarkMessage(msg, "")
	}
	return nil
}

func (h *TallyHandler) handle(msg *sarama.ConsumerMessage) {
	var ev CitySelected
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		h.logger.Error("malformed selection event",
			"partition", msg.Partition,
			"offset", msg.Offset,
			"error", err)
		return
	}

	h.tally.Add(ev)
	h.logger.Debug("selection counted", "city_id", ev.CityID, "source", ev.Source)
}
