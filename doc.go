// Package latentspace is a scroll-driven 3D point-cloud scene for [Ebitengine].
//
// A [Layout] places content sections ("clusters") in world space. [Generate]
// samples a point cloud for every cluster, and the [Engine] flies a
// perspective camera between them as the scroll progress moves from 0 to 1:
// the camera holds on a cluster, warps to the next through a short jump, and
// rests again.
//
// # Quick start
//
//	e, err := latentspace.NewEngine(latentspace.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	latentspace.Run(e, latentspace.RunConfig{Title: "Latent Space", Width: 1280, Height: 720})
//
// # Frame loop
//
// Every frame the engine advances its participants in registration order:
//
//   - [ScrollCamera] reads the [ScrollSource], computes the camera pose, and
//     publishes the active cluster and warp intensity to [Signals].
//   - [IdleAnimator] perturbs every point around its base position, with
//     stronger motion for the active cluster.
//   - [AttentionOverlay] recolors the edges between clusters so the ones
//     leaving the active cluster light up.
//   - [PostEffects] maps the warp intensity onto chromatic aberration.
//
// Custom participants are added with [Engine.Register]. Headless callers
// drive the loop with [Engine.Step]; windowed programs use [Run] or embed the
// engine as an [ebiten.Game].
//
// # Configuration
//
// Every constant lives in [Config], which loads from YAML with [LoadConfig]
// or [LoadConfigFile]. Unset fields keep the values of [DefaultConfig].
//
// # ECS integration
//
// Active-cluster changes can be forwarded to a [Donburi] world through the
// adapter in latentspace/ecs and [Engine.SetEntityStore].
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package latentspace
