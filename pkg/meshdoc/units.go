package meshdoc

import "fmt"

// Unit is a model length unit tag. The zero value is millimeters, the
// 3MF default.
type Unit int

const (
	UnitMillimeter Unit = iota
	UnitMicrometer
	UnitCentimeter
	UnitInch
	UnitFoot
	UnitMeter
)

var unitNames = map[Unit]string{
	UnitMicrometer: "micron",
	UnitMillimeter: "millimeter",
	UnitCentimeter: "centimeter",
	UnitInch:       "inch",
	UnitFoot:       "foot",
	UnitMeter:      "meter",
}

func (u Unit) String() string {
	if s, ok := unitNames[u]; ok {
		return s
	}
	return fmt.Sprintf("Unit(%d)", int(u))
}

// ParseUnit maps a 3MF unit attribute value to a Unit. An empty string
// is the format default, millimeters.
func ParseUnit(s string) (Unit, error) {
	if s == "" {
		return UnitMillimeter, nil
	}
	for u, name := range unitNames {
		if name == s {
			return u, nil
		}
	}
	return UnitMillimeter, fmt.Errorf("meshdoc: unknown model unit %q", s)
}
