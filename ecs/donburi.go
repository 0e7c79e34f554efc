package ecs

import (
	"github.com/phanxgames/latentspace"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// ClusterChangedEventType is the Donburi event type for active-cluster changes.
var ClusterChangedEventType = events.NewEventType[latentspace.ClusterChange]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Changes are published to ClusterChangedEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) latentspace.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitClusterChange(change latentspace.ClusterChange) {
	ClusterChangedEventType.Publish(s.world, change)
}
