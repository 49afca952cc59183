package analysis

import (
	"reflect"
	"testing"
)

func testVectorSpace(t *testing.T, docs [][]string) *VectorSpace {
	t.Helper()
	vs, err := BuildVectorSpace(docs)
	if err != nil {
		t.Fatalf("failed to build vector space: %v", err)
	}
	return vs
}

func TestClusterDegenerateSingleDoc(t *testing.T) {
	vs := testVectorSpace(t, [][]string{{"solo", "document"}})

	assignment := Cluster(vs, 3)
	if !assignment.Degenerate {
		t.Error("expected degenerate assignment for a single document")
	}
	if assignment.K != 1 {
		t.Errorf("K = %d, want 1", assignment.K)
	}
	if len(assignment.Labels) != 1 || assignment.Labels[0] != 0 {
		t.Errorf("Labels = %v, want [0]", assignment.Labels)
	}
}

func TestClusterDegenerateWhenMaxClustersBelowTwo(t *testing.T) {
	vs := testVectorSpace(t, [][]string{
		{"alpha", "one"},
		{"beta", "two"},
		{"gamma", "three"},
	})

	assignment := Cluster(vs, 1)
	if !assignment.Degenerate {
		t.Error("expected degenerate assignment when partitioning is disabled")
	}
	for i, label := range assignment.Labels {
		if label != 0 {
			t.Errorf("Labels[%d] = %d, want 0", i, label)
		}
	}
}

func TestClusterCapsKAtCorpusSize(t *testing.T) {
	vs := testVectorSpace(t, [][]string{
		{"wind", "turbine"},
		{"solar", "panel"},
	})

	assignment := Cluster(vs, 5)
	if assignment.K != 2 {
		t.Errorf("K = %d, want 2", assignment.K)
	}
	if assignment.Degenerate {
		t.Error("two documents should produce a real partitioning")
	}
}

func TestClusterEveryRowAssigned(t *testing.T) {
	vs := testVectorSpace(t, [][]string{
		{"protein", "folding", "structure"},
		{"protein", "design"},
		{"market", "volatility", "trading"},
		{"market", "liquidity"},
		{"volcano", "eruption"},
	})

	assignment := Cluster(vs, 3)
	if len(assignment.Labels) != vs.NumDocs() {
		t.Fatalf("got %d labels for %d documents", len(assignment.Labels), vs.NumDocs())
	}
	for i, label := range assignment.Labels {
		if label < 0 || label >= assignment.K {
			t.Errorf("Labels[%d] = %d outside [0,%d)", i, label, assignment.K)
		}
	}
}

func TestClusterDeterministic(t *testing.T) {
	docs := [][]string{
		{"genome", "sequencing", "dna"},
		{"genome", "assembly"},
		{"rocket", "launch", "orbit"},
		{"rocket", "engine"},
		{"coral", "reef", "bleaching"},
		{"coral", "restoration"},
	}

	vs := testVectorSpace(t, docs)
	first := Cluster(vs, 3)

	for i := 0; i < 10; i++ {
		vs := testVectorSpace(t, docs)
		got := Cluster(vs, 3)
		if !reflect.DeepEqual(got.Labels, first.Labels) {
			t.Fatalf("run %d produced labels %v, first run produced %v", i, got.Labels, first.Labels)
		}
	}
}

func TestClusterMembers(t *testing.T) {
	assignment := &ClusterAssignment{Labels: []int{0, 1, 0, 2, 1}, K: 3}

	got := assignment.Members(1)
	expected := []int{1, 4}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Members(1) = %v, want %v", got, expected)
	}

	if members := assignment.Members(5); members == nil || len(members) != 0 {
		t.Errorf("Members(5) = %v, want non-nil empty slice", members)
	}
}

func TestClusterEmptyClusterTopTerms(t *testing.T) {
	// Two identical documents collapse onto one centroid, leaving the
	// other cluster empty. The empty cluster must not inherit the
	// corpus-wide top terms through a nil member selection.
	vs := testVectorSpace(t, [][]string{
		{"quantum", "computing", "hardware"},
		{"quantum", "computing", "hardware"},
	})

	assignment := Cluster(vs, 2)
	if assignment.K != 2 {
		t.Fatalf("K = %d, want 2", assignment.K)
	}

	sizes := make([]int, assignment.K)
	for _, label := range assignment.Labels {
		sizes[label]++
	}

	for label := 0; label < assignment.K; label++ {
		members := assignment.Members(label)
		if members == nil {
			t.Fatalf("Members(%d) = nil, want non-nil slice", label)
		}
		if len(members) != sizes[label] {
			t.Errorf("Members(%d) has %d rows, want %d", label, len(members), sizes[label])
		}
		if sizes[label] == 0 {
			top := vs.TopTerms(members, 10)
			if len(top) != 0 {
				t.Errorf("empty cluster %d reports top terms %v, want none", label, top)
			}
		}
	}
}

func TestKMeansFitIdenticalPoints(t *testing.T) {
	data := [][]float64{
		{1.0, 1.0},
		{1.0, 1.0},
		{1.0, 1.0},
	}

	km := NewKMeans(2)
	labels := km.Fit(data)

	if len(labels) != 3 {
		t.Fatalf("got %d labels, want 3", len(labels))
	}
	// All points coincide, so every one lands on the same centroid via
	// the lowest-index tie-break.
	for i, label := range labels {
		if label != labels[0] {
			t.Errorf("label %d = %d, want %d", i, label, labels[0])
		}
	}
}

func TestKMeansFitSeparatedGroups(t *testing.T) {
	data := [][]float64{
		{0.0, 0.1},
		{0.1, 0.0},
		{10.0, 10.1},
		{10.1, 10.0},
	}

	km := NewKMeans(2)
	labels := km.Fit(data)

	if labels[0] != labels[1] {
		t.Errorf("points 0 and 1 split across clusters: %v", labels)
	}
	if labels[2] != labels[3] {
		t.Errorf("points 2 and 3 split across clusters: %v", labels)
	}
	if labels[0] == labels[2] {
		t.Errorf("separated groups merged into one cluster: %v", labels)
	}
}
