package property

import (
	"errors"
	"testing"

	"github.com/evcraddock/realty/internal/db"
)

func TestValidate(t *testing.T) {
	valid := func() Property {
		return Property{Name: "Flat", Address: "1 Main St", Price: 100, AreaM2: 50, Rooms: 2, Bathrooms: 1}
	}

	tests := []struct {
		name    string
		mutate  func(p *Property)
		wantErr bool
	}{
		{"valid", func(p *Property) {}, false},
		{"all zero counts", func(p *Property) { p.AreaM2, p.Rooms, p.Bathrooms, p.Price = 0, 0, 0, 0 }, false},
		{"negative area", func(p *Property) { p.AreaM2 = -1 }, true},
		{"negative rooms", func(p *Property) { p.Rooms = -1 }, true},
		{"negative bathrooms", func(p *Property) { p.Bathrooms = -1 }, true},
		{"negative price", func(p *Property) { p.Price = -0.5 }, true},
		{"blank name", func(p *Property) { p.Name = "  " }, true},
		{"blank address", func(p *Property) { p.Address = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr {
				if !errors.Is(err, db.ErrValidation) {
					t.Errorf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestNullString(t *testing.T) {
	if nullString("").Valid {
		t.Error("empty string should be NULL")
	}
	if ns := nullString("/a.jpg"); !ns.Valid || ns.String != "/a.jpg" {
		t.Errorf("got %+v", ns)
	}
}
