package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugBasic(t *testing.T) {
	s := New()
	assert.Equal(t, "getting-started", s.Slug("Getting Started!"))
	assert.Equal(t, "a", s.Slug("A"))
	assert.Equal(t, "a-1", s.Slug("A"))
	assert.Equal(t, "a-2", s.Slug("A"))
}

func TestSlugCollisionOrder(t *testing.T) {
	s := New()
	assert.Equal(t, "intro", s.Slug("Intro"))
	assert.Equal(t, "setup", s.Slug("Setup"))
	assert.Equal(t, "intro-1", s.Slug("Intro"))
}

func TestSlugEmptyFallsBackToSection(t *testing.T) {
	s := New()
	assert.Equal(t, "section", s.Slug("!!!"))
	assert.Equal(t, "section-1", s.Slug("???"))
}

func TestSlugTrimsLeadingTrailingDashes(t *testing.T) {
	s := New()
	assert.Equal(t, "hello-world", s.Slug("  Hello, World!  "))
}
