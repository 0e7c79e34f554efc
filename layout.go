package latentspace

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var (
	// ErrTooFewClusters is returned when a layout defines fewer than two
	// clusters; the camera needs at least one segment to interpolate.
	ErrTooFewClusters = errors.New("layout needs at least 2 clusters")
	// ErrInvalidCluster is returned for a cluster with a non-positive size or
	// a non-finite center or camera offset.
	ErrInvalidCluster = errors.New("invalid cluster")
	// ErrUnknownShape is returned when a cluster names a shape that does not exist.
	ErrUnknownShape = errors.New("unknown cluster shape")
)

// ClusterShape selects the spatial distribution a cluster's points are sampled from.
type ClusterShape uint8

const (
	ShapeShell       ClusterShape = iota // spherical band between inner and outer radius
	ShapeLayers                          // stacked layers with points snapped into nodes
	ShapeBlock                           // dense rectangular block
	ShapeIslands                         // three small spheres
	ShapeRings                           // three flat concentric rings
	ShapeSingularity                     // dense core with spiral arms
	ShapeNebula                          // spherical band with noise-driven radius
	shapeCount
)

var shapeNames = [shapeCount]string{
	ShapeShell:       "shell",
	ShapeLayers:      "layers",
	ShapeBlock:       "block",
	ShapeIslands:     "islands",
	ShapeRings:       "rings",
	ShapeSingularity: "singularity",
	ShapeNebula:      "nebula",
}

// String returns the configuration name of the shape.
func (s ClusterShape) String() string {
	if s < shapeCount {
		return shapeNames[s]
	}
	return fmt.Sprintf("ClusterShape(%d)", s)
}

// ParseClusterShape maps a configuration name to a ClusterShape.
func ParseClusterShape(name string) (ClusterShape, error) {
	if name == "" {
		return ShapeShell, nil
	}
	for i, n := range shapeNames {
		if n == name {
			return ClusterShape(i), nil
		}
	}
	return 0, fmt.Errorf("%q: %w", name, ErrUnknownShape)
}

// UnmarshalYAML decodes a shape from its name.
func (s *ClusterShape) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	shape, err := ParseClusterShape(name)
	if err != nil {
		return err
	}
	*s = shape
	return nil
}

// MarshalYAML encodes a shape as its name.
func (s ClusterShape) MarshalYAML() (any, error) {
	return s.String(), nil
}

// UnmarshalYAML accepts either a [x, y, z] sequence or an {x, y, z} mapping.
func (v *Vec3) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		var xyz []float64
		if err := value.Decode(&xyz); err != nil {
			return err
		}
		if len(xyz) != 3 {
			return fmt.Errorf("line %d: vector needs 3 components, got %d", value.Line, len(xyz))
		}
		*v = Vec3{xyz[0], xyz[1], xyz[2]}
		return nil
	}
	var m struct {
		X float64 `yaml:"x"`
		Y float64 `yaml:"y"`
		Z float64 `yaml:"z"`
	}
	if err := value.Decode(&m); err != nil {
		return err
	}
	*v = Vec3{m.X, m.Y, m.Z}
	return nil
}

// Cluster is one content section of the point cloud. Its index in the
// Layout is its identity; clusters are immutable once the layout is loaded.
type Cluster struct {
	Label  string `yaml:"label"`
	Center Vec3   `yaml:"center"`
	Size   int    `yaml:"size"`
	// CameraOffset is where the camera sits relative to Center while this
	// cluster is in focus.
	CameraOffset Vec3         `yaml:"camera_offset"`
	Shape        ClusterShape `yaml:"shape"`
}

// Layout is the ordered list of clusters the camera travels through.
type Layout struct {
	Clusters []Cluster `yaml:"clusters"`
}

// DefaultLayout returns the six sections of the narrative, each sampled as a
// spherical shell.
func DefaultLayout() Layout {
	return Layout{Clusters: []Cluster{
		{Label: "Hero", Center: Vec3{0, 0, 0}, Size: 4000, CameraOffset: Vec3{0, 0, 15}},
		{Label: "About", Center: Vec3{-40, -50, -80}, Size: 4000, CameraOffset: Vec3{0, 5, 20}},
		{Label: "Experience", Center: Vec3{50, -100, -160}, Size: 4000, CameraOffset: Vec3{0, 0, 25}},
		{Label: "Projects", Center: Vec3{-50, -150, -240}, Size: 4000, CameraOffset: Vec3{0, 8, 20}},
		{Label: "Achievements", Center: Vec3{40, -200, -320}, Size: 2000, CameraOffset: Vec3{0, 15, 15}},
		{Label: "Contact", Center: Vec3{0, -250, -400}, Size: 2000, CameraOffset: Vec3{0, 0, 20}},
	}}
}

// ShowcaseLayout returns DefaultLayout with each section given its own shape.
func ShowcaseLayout() Layout {
	l := DefaultLayout()
	shapes := []ClusterShape{ShapeShell, ShapeLayers, ShapeBlock, ShapeIslands, ShapeRings, ShapeSingularity}
	for i := range l.Clusters {
		l.Clusters[i].Shape = shapes[i]
	}
	return l
}

// Len returns the number of clusters.
func (l Layout) Len() int {
	return len(l.Clusters)
}

// Label returns the label of cluster i, or "" if i is out of range.
func (l Layout) Label(i int) string {
	if i < 0 || i >= len(l.Clusters) {
		return ""
	}
	return l.Clusters[i].Label
}

// TotalPoints returns the sum of all cluster sizes.
func (l Layout) TotalPoints() int {
	total := 0
	for _, c := range l.Clusters {
		total += c.Size
	}
	return total
}

// Validate checks the layout is usable by the generator and camera.
func (l Layout) Validate() error {
	if len(l.Clusters) < 2 {
		return fmt.Errorf("%d clusters: %w", len(l.Clusters), ErrTooFewClusters)
	}
	for i, c := range l.Clusters {
		switch {
		case c.Size <= 0:
			return fmt.Errorf("cluster %d (%q): size %d: %w", i, c.Label, c.Size, ErrInvalidCluster)
		case !c.Center.IsFinite():
			return fmt.Errorf("cluster %d (%q): center %v: %w", i, c.Label, c.Center, ErrInvalidCluster)
		case !c.CameraOffset.IsFinite():
			return fmt.Errorf("cluster %d (%q): camera offset %v: %w", i, c.Label, c.CameraOffset, ErrInvalidCluster)
		case c.Shape >= shapeCount:
			return fmt.Errorf("cluster %d (%q): %v: %w", i, c.Label, c.Shape, ErrUnknownShape)
		}
	}
	return nil
}
