package cluster

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sebdah/goldie/v2"

	"impuls/internal/logarchive"
	"impuls/internal/logtags"
)

func entry(path string, primary logtags.PrimaryTag, cycle logtags.CycleTag, process ...logtags.ProcessTag) *logarchive.Entry {
	return &logarchive.Entry{
		FilePath: path,
		ID:       logarchive.UnknownID,
		Header: &logtags.Header{
			Primary: primary,
			Cycle:   cycle,
			Process: process,
		},
	}
}

func paths(entries []*logarchive.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.FilePath)
	}
	return out
}

func fixture() []*logarchive.Entry {
	return []*logarchive.Entry{
		entry("m1.md", logtags.PrimaryMusik, "#Zyklus-1", logtags.ProcessAnalyse),
		entry("i1.md", logtags.PrimaryImpuls, "", logtags.ProcessMeta, logtags.ProcessTest),
		entry("m2.md", logtags.PrimaryMusik, "#Zyklus-1", logtags.ProcessAnalyse, logtags.ProcessTest),
		entry("m3.md", logtags.PrimaryMusik, "#Zyklus-2", logtags.ProcessEntwurf),
	}
}

func TestBuild(t *testing.T) {
	idx := Build(fixture())

	if diff := cmp.Diff([]logtags.PrimaryTag{logtags.PrimaryMusik, logtags.PrimaryImpuls}, idx.PrimaryKeys); diff != "" {
		t.Fatalf("unexpected primary keys (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"m1.md", "m2.md", "m3.md"}, paths(idx.ByPrimary[logtags.PrimaryMusik])); diff != "" {
		t.Fatalf("unexpected #MUSIK bucket (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]logtags.CycleTag{"#Zyklus-1", "#Zyklus-2"}, idx.CycleKeys); diff != "" {
		t.Fatalf("unexpected cycle keys (-want +got):\n%s", diff)
	}
	if _, ok := idx.ByCycle[""]; ok {
		t.Fatalf("expected entries without cycle to be omitted")
	}
	if diff := cmp.Diff([]string{"i1.md", "m2.md"}, paths(idx.ByProcess[logtags.ProcessTest])); diff != "" {
		t.Fatalf("unexpected #Test bucket (-want +got):\n%s", diff)
	}
	if len(idx.ProcessKeys) != 4 {
		t.Fatalf("expected 4 process keys, got %v", idx.ProcessKeys)
	}
}

func TestBuild_Idempotent(t *testing.T) {
	entries := fixture()
	if diff := cmp.Diff(Build(entries), Build(entries)); diff != "" {
		t.Fatalf("rebuilding changed the index (-first +second):\n%s", diff)
	}
}

func TestBuild_Empty(t *testing.T) {
	idx := Build(nil)
	if len(idx.ByPrimary) != 0 || len(idx.ByCycle) != 0 || len(idx.ByProcess) != 0 {
		t.Fatalf("expected empty index, got %#v", idx)
	}
}

func TestFilterByPrimaryAndCycle(t *testing.T) {
	entries := fixture()

	got := FilterByPrimaryAndCycle(entries, logtags.PrimaryMusik, "")
	if diff := cmp.Diff([]string{"m1.md", "m2.md", "m3.md"}, paths(got)); diff != "" {
		t.Fatalf("unexpected filter without cycle (-want +got):\n%s", diff)
	}

	got = FilterByPrimaryAndCycle(entries, logtags.PrimaryMusik, "#Zyklus-2")
	if diff := cmp.Diff([]string{"m3.md"}, paths(got)); diff != "" {
		t.Fatalf("unexpected filter with cycle (-want +got):\n%s", diff)
	}

	if got := FilterByPrimaryAndCycle(entries, logtags.PrimarySchach, ""); len(got) != 0 {
		t.Fatalf("expected no entries, got %d", len(got))
	}
}

func TestProcessDistribution_StableTies(t *testing.T) {
	entries := []*logarchive.Entry{
		entry("a.md", logtags.PrimaryBeruf, "", logtags.ProcessKorrektur, logtags.ProcessEntwurf),
		entry("b.md", logtags.PrimaryBeruf, "", logtags.ProcessEvaluation, logtags.ProcessEntwurf),
	}
	want := []ProcessCount{
		{Tag: logtags.ProcessEntwurf, Count: 2},
		{Tag: logtags.ProcessKorrektur, Count: 1},
		{Tag: logtags.ProcessEvaluation, Count: 1},
	}
	if diff := cmp.Diff(want, ProcessDistribution(entries)); diff != "" {
		t.Fatalf("unexpected distribution (-want +got):\n%s", diff)
	}
}

func TestSummarize(t *testing.T) {
	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))
	entries := []*logarchive.Entry{
		entry("a.md", logtags.PrimaryMusik, "#Zyklus-1", logtags.ProcessAnalyse),
		entry("b.md", logtags.PrimaryMusik, "#Zyklus-1", logtags.ProcessAnalyse, logtags.ProcessTest),
		entry("c.md", logtags.PrimaryImpuls, "#Zyklus-1", logtags.ProcessMeta),
	}

	t.Run("primary and cycle", func(t *testing.T) {
		g.Assert(t, "summary_musik_cycle", []byte(Summarize(entries, logtags.PrimaryMusik, "#Zyklus-1")))
	})

	t.Run("primary only", func(t *testing.T) {
		g.Assert(t, "summary_impuls", []byte(Summarize(entries, logtags.PrimaryImpuls, "")))
	})

	t.Run("no process tags", func(t *testing.T) {
		bare := []*logarchive.Entry{entry("d.md", logtags.PrimarySchach, "")}
		g.Assert(t, "summary_no_process", []byte(Summarize(bare, logtags.PrimarySchach, "")))
	})

	t.Run("not found", func(t *testing.T) {
		if got := Summarize(entries, logtags.PrimaryBeruf, ""); got != "No logs found for #BERUF." {
			t.Fatalf("unexpected message: %q", got)
		}
		if got := Summarize(entries, logtags.PrimaryMusik, "#Zyklus-9"); got != "No logs found for #MUSIK in #Zyklus-9." {
			t.Fatalf("unexpected message: %q", got)
		}
	})
}

func TestAggregate(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		s := Aggregate(nil)
		if s.Total != 0 || s.DominantPrimary != nil || s.DominantProcess != nil {
			t.Fatalf("expected zero stats, got %#v", s)
		}
		if s.Cycles == nil {
			t.Fatalf("expected empty, non-nil cycles")
		}
	})

	t.Run("counts and dominants", func(t *testing.T) {
		entries := fixture()
		entries[0].Header.Intensity = logtags.IntensityHoch
		s := Aggregate(entries)

		if s.Total != 4 {
			t.Fatalf("expected total 4, got %d", s.Total)
		}
		if s.Primary[logtags.PrimaryMusik.Index()] != 3 || s.Primary[logtags.PrimaryImpuls.Index()] != 1 {
			t.Fatalf("unexpected primary counts: %v", s.Primary)
		}
		if s.Intensity[logtags.IntensityHoch.Index()] != 1 || s.NoIntensity != 3 {
			t.Fatalf("unexpected intensity counts: %v / %d", s.Intensity, s.NoIntensity)
		}
		if *s.DominantPrimary != logtags.PrimaryMusik {
			t.Fatalf("expected #MUSIK, got %s", *s.DominantPrimary)
		}
		// #Analyse and #Test both count 2; #Analyse is seen first.
		if *s.DominantProcess != logtags.ProcessAnalyse {
			t.Fatalf("expected #Analyse, got %s", *s.DominantProcess)
		}
		want := []CycleCount{{Cycle: "#Zyklus-1", Count: 2}, {Cycle: "#Zyklus-2", Count: 1}}
		if diff := cmp.Diff(want, s.Cycles); diff != "" {
			t.Fatalf("unexpected cycles (-want +got):\n%s", diff)
		}
	})

	t.Run("tie broken by first occurrence not vocabulary order", func(t *testing.T) {
		entries := []*logarchive.Entry{
			entry("a.md", logtags.PrimarySchach, "", logtags.ProcessEvaluation),
			entry("b.md", logtags.PrimaryMusik, "", logtags.ProcessAnalyse),
		}
		s := Aggregate(entries)
		if *s.DominantPrimary != logtags.PrimarySchach {
			t.Fatalf("expected #SCHACH, got %s", *s.DominantPrimary)
		}
		if *s.DominantProcess != logtags.ProcessEvaluation {
			t.Fatalf("expected #Evaluation, got %s", *s.DominantProcess)
		}
	})
}
