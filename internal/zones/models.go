package zones

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/GestionGanadera/GG-Backend/internal/geo"
)

// Zone is a named area of the farm. Exactly one zone per farm is the facility
// boundary (the outer perimeter, resolved last); all others are sub-zones.
type Zone struct {
	ID          string   `gorm:"primaryKey" json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Boundary    Boundary `gorm:"type:jsonb" json:"boundary"`
	Color       string   `json:"color"`
	Facility    bool     `json:"facility"`
	Seq         int      `json:"-"`
}

func (Zone) TableName() string { return "ganaderia.zones" }

// Boundary stores a closed ring of [lng, lat] vertices as a JSONB column.
type Boundary geo.Ring

func (b Boundary) Value() (driver.Value, error) {
	return json.Marshal(b)
}

func (b *Boundary) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported boundary column type %T", value)
	}
	return json.Unmarshal(raw, b)
}
