package eventbus_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/tourhub-uz/tourhub/pkg/eventbus"
)

type created struct{ Name string }
type deleted struct{ Name string }

func TestPublishDispatchesBySignature(t *testing.T) {
	t.Parallel()
	bus := eventbus.NewEventPublisher(logrus.New())

	var got []string
	bus.Subscribe(func(e created) { got = append(got, "created:"+e.Name) })
	bus.Subscribe(func(e deleted) { got = append(got, "deleted:"+e.Name) })

	bus.Publish(created{Name: "x"})
	bus.Publish(deleted{Name: "y"})

	assert.Equal(t, []string{"created:x", "deleted:y"}, got)
}

func TestUnsubscribe(t *testing.T) {
	t.Parallel()
	bus := eventbus.NewEventPublisher(logrus.New())

	calls := 0
	handler := func(created) { calls++ }
	bus.Subscribe(handler)
	assert.Equal(t, 1, bus.SubscribersCount())

	bus.Unsubscribe(handler)
	bus.Publish(created{})
	assert.Zero(t, calls)
	assert.Zero(t, bus.SubscribersCount())
}

func TestPanickedHandlerDoesNotStopDispatch(t *testing.T) {
	t.Parallel()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	bus := eventbus.NewEventPublisher(logger)

	var survived bool
	bus.Subscribe(func(created) { panic("boom") })
	bus.Subscribe(func(created) { survived = true })

	bus.Publish(created{})
	assert.True(t, survived)
}

func TestMatchSignature(t *testing.T) {
	t.Parallel()
	assert.True(t, eventbus.MatchSignature(func(created) {}, []interface{}{created{}}))
	assert.False(t, eventbus.MatchSignature(func(created) {}, []interface{}{deleted{}}))
	assert.False(t, eventbus.MatchSignature(func(created, deleted) {}, []interface{}{created{}}))
	assert.False(t, eventbus.MatchSignature("not a func", []interface{}{created{}}))
}
