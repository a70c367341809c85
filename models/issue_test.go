package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidCategory(t *testing.T) {
	tests := []struct {
		name     string
		category string
		want     bool
	}{
		{name: "road", category: "road", want: true},
		{name: "lighting", category: "lighting", want: true},
		{name: "waste", category: "waste", want: true},
		{name: "water", category: "water", want: true},
		{name: "safety", category: "safety", want: true},
		{name: "other", category: "other", want: true},
		{name: "unknown value", category: "graffiti", want: false},
		{name: "wrong case", category: "Road", want: false},
		{name: "empty", category: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidCategory(tt.category))
		})
	}
}

func TestValidStatus(t *testing.T) {
	tests := []struct {
		name   string
		status string
		want   bool
	}{
		{name: "open", status: "OPEN", want: true},
		{name: "in progress", status: "IN_PROGRESS", want: true},
		{name: "resolved", status: "RESOLVED", want: true},
		{name: "closed", status: "CLOSED", want: true},
		{name: "lowercase", status: "open", want: false},
		{name: "unknown value", status: "PENDING", want: false},
		{name: "empty", status: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidStatus(tt.status))
		})
	}
}

func TestUserPasswordRoundTrip(t *testing.T) {
	user := User{Password: "hunter22"}

	assert.NoError(t, user.HashPassword())
	assert.NotEqual(t, "hunter22", user.Password)
	assert.True(t, user.ComparePassword("hunter22"))
	assert.False(t, user.ComparePassword("hunter2"))
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.False(t, (&User{Role: RoleUser}).IsAdmin())
	assert.False(t, (&User{}).IsAdmin())
}
