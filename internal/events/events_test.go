package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKafkaPublisher_Publish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, sarama.NewConfig())
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var ev CitySelected
		if err := json.Unmarshal(val, &ev); err != nil {
			return err
		}
		if ev.CityID != 2643743 || ev.Source != SourceSearch {
			return errors.New("unexpected event payload")
		}
		return nil
	})

	pub := newKafkaPublisher(producer, "city_selections", slog.New(slog.NewTextHandler(io.Discard, nil)))
	err := pub.Publish(context.Background(), CitySelected{
		CityID:    2643743,
		City:      "London",
		Country:   "GB",
		Source:    SourceSearch,
		Units:     "metric",
		Timestamp: time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, pub.Close())
}

func TestKafkaPublisher_PublishFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, sarama.NewConfig())
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	pub := newKafkaPublisher(producer, "city_selections", slog.New(slog.NewTextHandler(io.Discard, nil)))
	err := pub.Publish(context.Background(), CitySelected{CityID: 1})
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, pub.Close())
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), CitySelected{CityID: 1}))
	assert.NoError(t, p.Close())
}

func TestTally(t *testing.T) {
	tally := NewTally()
	tally.Add(CitySelected{CityID: 2, City: "Paris", Source: SourceRandom})
	tally.Add(CitySelected{CityID: 1, City: "London", Source: SourceSearch})
	tally.Add(CitySelected{CityID: 1, City: "London", Source: SourceResult})
	tally.Add(CitySelected{CityID: 3, City: "Oslo", Source: SourceRandom})

	assert.Equal(t, 4, tally.Total())

	top := tally.Top(2)
	require.Len(t, top, 2)
	assert.Equal(t, "London", top[0].City)
	assert.Equal(t, 2, top[0].Count)
	assert.Equal(t, map[string]int{SourceSearch: 1, SourceResult: 1}, top[0].Sources)
	assert.Equal(t, 2, top[1].CityID)

	top[0].Sources[SourceSearch] = 99
	assert.Equal(t, 1, tally.Top(1)[0].Sources[SourceSearch])
	assert.Len(t, tally.Top(-1), 3)
}
