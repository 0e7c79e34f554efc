// Package ecs provides ECS adapters for latentspace's cluster signals.
//
// The primary adapter is [NewDonburiStore], which bridges active-cluster
// changes into a [Donburi] world as typed events. Subscribe to
// [ClusterChangedEventType] in your ECS systems to receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	engine.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
