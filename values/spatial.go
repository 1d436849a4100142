package values

// Point2D is a planar point tagged with a spatial reference system id.
type Point2D struct {
	SRID int32
	X, Y float64
}

// Kind implements Value.
func (Point2D) Kind() Kind { return KindPoint2D }

// Point3D is a spatial point.
type Point3D struct {
	SRID    int32
	X, Y, Z float64
}

// Kind implements Value.
func (Point3D) Kind() Kind { return KindPoint3D }
