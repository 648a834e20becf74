package service

import (
	"testing"

	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"

	"fieldtrack/internal/model"
)

// The users.status column is an integer; a string bind value makes postgres
// reject every dashboard query.
func TestActiveRepFilterBindsIntegerStatus(t *testing.T) {
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true, SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open dry-run db: %v", err)
	}

	var users []model.User
	stmt := activeRepFilter(db.Model(&model.User{})).Find(&users).Statement

	if len(stmt.Vars) != 2 {
		t.Fatalf("bind vars = %v, want role and status", stmt.Vars)
	}
	if stmt.Vars[0] != model.RoleRep {
		t.Fatalf("role bound as %v, want %q", stmt.Vars[0], model.RoleRep)
	}
	if _, ok := stmt.Vars[1].(int); !ok {
		t.Fatalf("status bound as %T (%v), want an int", stmt.Vars[1], stmt.Vars[1])
	}
	if stmt.Vars[1] != model.UserStatusActive {
		t.Fatalf("status bound as %v, want %d", stmt.Vars[1], model.UserStatusActive)
	}
}
