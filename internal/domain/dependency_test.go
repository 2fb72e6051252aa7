package domain

import (
	"errors"
	"reflect"
	"testing"
)

func TestNewDependency(t *testing.T) {
	dep := NewDependency("tk-123456", "tk-abcdef")

	if dep.ChildID != "tk-123456" || dep.ParentID != "tk-abcdef" {
		t.Errorf("NewDependency() = %+v", dep)
	}
}

func TestDependency_Validate(t *testing.T) {
	tests := []struct {
		name    string
		dep     Dependency
		wantErr bool
	}{
		{"valid", NewDependency("tk-1", "tk-2"), false},
		{"self", NewDependency("tk-1", "tk-1"), true},
		{"missing parent", NewDependency("tk-1", ""), true},
		{"missing child", NewDependency("", "tk-2"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.dep.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			var derr *DomainError
			if err != nil && (!errors.As(err, &derr) || derr.Code != ErrCodeValidationFailed) {
				t.Errorf("Validate() error = %v, want VALIDATION_FAILED", err)
			}
		})
	}
}

func TestParentsByChild(t *testing.T) {
	deps := []*Dependency{
		{ChildID: "testing", ParentID: "frontend"},
		{ChildID: "frontend", ParentID: "design"},
		{ChildID: "testing", ParentID: "backend"},
	}

	got := ParentsByChild(deps)
	want := map[string][]string{
		"testing":  {"frontend", "backend"},
		"frontend": {"design"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParentsByChild() = %v, want %v", got, want)
	}
}
