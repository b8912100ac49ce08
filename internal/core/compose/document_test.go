package compose

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test Fixtures
// =============================================================================

func imageFragment(image string, volumes ...string) *Fragment {
	f := NewFragment()
	f.Set("image", image)
	if volumes == nil {
		volumes = []string{}
	}
	f.Set("volumes", volumes)
	return f
}

// =============================================================================
// Fragment Tests
// =============================================================================

func TestFragment_SetKeepsFirstPosition(t *testing.T) {
	f := NewFragment()
	f.Set("image", "redis:7")
	f.Set("volumes", []string{})
	f.Set("image", "redis:8")

	assert.Equal(t, []string{"image", "volumes"}, f.Keys())
	v, ok := f.Get("image")
	require.True(t, ok)
	assert.Equal(t, "redis:8", v)
}

func TestFragment_ZeroValueUsable(t *testing.T) {
	var f Fragment
	f.Set("expose", 80)
	assert.Equal(t, 1, f.Len())
	assert.True(t, f.Has("expose"))
}

func TestFragment_NilReadsEmpty(t *testing.T) {
	var f *Fragment
	assert.Equal(t, 0, f.Len())
	assert.Nil(t, f.Keys())
	assert.False(t, f.Has("image"))
}

func TestMerge_OverlayWins(t *testing.T) {
	base := NewFragment()
	base.Set("env_file", []string{".env"})

	overlay := NewFragment()
	overlay.Set("image", "redis:7")
	overlay.Set("env_file", []string{".env.local"})

	merged := Merge(base, overlay)

	assert.Equal(t, []string{"env_file", "image"}, merged.Keys())
	v, _ := merged.Get("env_file")
	assert.Equal(t, []string{".env.local"}, v)

	// inputs untouched
	v, _ = base.Get("env_file")
	assert.Equal(t, []string{".env"}, v)
}

func TestMerge_NilBase(t *testing.T) {
	merged := Merge(nil, imageFragment("nginx:latest"))
	assert.Equal(t, []string{"image", "volumes"}, merged.Keys())
}

// =============================================================================
// Document Merge Tests
// =============================================================================

func TestDocument_MergeDistinctNamesIsOrderIndependent(t *testing.T) {
	a := imageFragment("redis:7")
	b := imageFragment("postgres:15.1")

	first := NewDocument()
	first.MergeFragment("cache", a)
	first.MergeFragment("db", b)

	second := NewDocument()
	second.MergeFragment("db", b)
	second.MergeFragment("cache", a)

	firstNames := first.ServiceNames()
	secondNames := second.ServiceNames()
	sort.Strings(firstNames)
	sort.Strings(secondNames)
	assert.Equal(t, firstNames, secondNames)

	for _, name := range firstNames {
		f1, _ := first.Service(name)
		f2, _ := second.Service(name)
		assert.Same(t, f1, f2)
	}
}

func TestDocument_MergeSameNameLastWriterWins(t *testing.T) {
	a := imageFragment("redis:7")
	b := imageFragment("redis:8")

	ab := NewDocument()
	ab.MergeFragment("cache", a)
	ab.MergeFragment("cache", b)

	ba := NewDocument()
	ba.MergeFragment("cache", b)
	ba.MergeFragment("cache", a)

	assert.Equal(t, 1, ab.Len())
	got, _ := ab.Service("cache")
	assert.Same(t, b, got)

	got, _ = ba.Service("cache")
	assert.Same(t, a, got)
}

func TestDocument_ServiceNamesInsertionOrder(t *testing.T) {
	doc := NewDocument()
	doc.MergeFragment("s1", imageFragment("a"))
	doc.MergeFragment("s2", imageFragment("b"))
	doc.MergeFragment("s3", imageFragment("c"))
	doc.MergeFragment("s1", imageFragment("d"))

	assert.Equal(t, []string{"s1", "s2", "s3"}, doc.ServiceNames())
}

func TestDocument_NamedVolumes(t *testing.T) {
	doc := NewDocument()
	doc.MergeFragment("db", imageFragment("postgres:15.1", "postgres_data:/var/lib/postgresql/data/"))
	doc.MergeFragment("proxy", imageFragment("nginx:latest",
		"./proxy/nginx.conf:/etc/nginx/nginx.conf:ro",
		"/var/run/docker.sock:/var/run/docker.sock:ro",
	))
	doc.MergeFragment("db2", imageFragment("postgres:15.1", "postgres_data:/data", "cache:/cache"))

	assert.Equal(t, []string{"postgres_data", "cache"}, doc.NamedVolumes())
}

func TestIsBindSource(t *testing.T) {
	tests := []struct {
		source string
		want   bool
	}{
		{"./backend", true},
		{"../shared", true},
		{"/var/run/docker.sock", true},
		{"~/.cache", true},
		{".", true},
		{"postgres_data", false},
		{"data", false},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBindSource(tt.source))
		})
	}
}
