package services

import (
	"sync"

	"github.com/flatfinder/flatfinder/pkg/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// FlatID -> Client ID -> subscription
var feedRegistry = make(map[uint]map[string]*FeedSubscription)
var feedLock sync.Mutex

// loadFlatSnapshot is swapped out in tests.
var loadFlatSnapshot = func(flatId uint) ([]models.Message, error) {
	return ListMessage(flatId)
}

// FeedSubscription delivers the complete message snapshot of one flat,
// once on subscribe and then once per change. Slow consumers lose
// intermediate snapshots, never the latest one.
type FeedSubscription struct {
	C <-chan []models.Message

	flatId   uint
	clientId string
	ch       chan []models.Message
	once     sync.Once
}

// SubscribeFlatFeed registers a feed subscription and primes it with the
// current snapshot. Concurrent subscriptions to the same flat are
// independent, each with its own stream.
func SubscribeFlatFeed(flatId uint) (*FeedSubscription, error) {
	snapshot, err := loadFlatSnapshot(flatId)
	if err != nil {
		return nil, StoreError{Op: "subscribe", Err: err}
	}

	sub := &FeedSubscription{
		flatId:   flatId,
		clientId: uuid.NewString(),
		ch:       make(chan []models.Message, 8),
	}
	sub.C = sub.ch

	feedLock.Lock()
	defer feedLock.Unlock()
	if _, ok := feedRegistry[flatId]; !ok {
		feedRegistry[flatId] = make(map[string]*FeedSubscription)
	}
	feedRegistry[flatId][sub.clientId] = sub
	sub.push(snapshot)

	return sub, nil
}

// Cancel stops further snapshot delivery and releases the subscription.
// Safe to call more than once.
func (s *FeedSubscription) Cancel() {
	s.once.Do(func() {
		feedLock.Lock()
		defer feedLock.Unlock()
		if subs, ok := feedRegistry[s.flatId]; ok {
			delete(subs, s.clientId)
			if len(subs) == 0 {
				delete(feedRegistry, s.flatId)
			}
		}
		close(s.ch)
	})
}

// push never blocks the publisher: when the buffer is full the stalest
// pending snapshot is dropped to make room.
func (s *FeedSubscription) push(snapshot []models.Message) {
	for {
		select {
		case s.ch <- snapshot:
			return
		default:
			select {
			case <-s.ch:
			default:
			}
		}
	}
}

// PublishFlatSnapshot reloads the flat's messages and fans the snapshot out
// to every live subscription of that flat.
func PublishFlatSnapshot(flatId uint) {
	snapshot, err := loadFlatSnapshot(flatId)
	if err != nil {
		log.Warn().Err(err).Uint("flat", flatId).Msg("Unable to load flat snapshot for fanout...")
		return
	}

	feedLock.Lock()
	defer feedLock.Unlock()
	for _, sub := range feedRegistry[flatId] {
		sub.push(snapshot)
	}
}

func CountFeedSubscribers(flatId uint) int {
	feedLock.Lock()
	defer feedLock.Unlock()
	return len(feedRegistry[flatId])
}
