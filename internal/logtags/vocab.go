package logtags

import "golang.org/x/text/unicode/norm"

type (
	PrimaryTag    string
	ProcessTag    string
	CycleTag      string
	IntensityTag  string
	EmotionTag    string
	StructureTag  string
	MetaSystemTag string
)

const (
	PrimaryMusik         PrimaryTag = "#MUSIK"
	PrimaryImpuls        PrimaryTag = "#IMPULS"
	PrimaryMastersphere  PrimaryTag = "#MASTERSPHÄRE"
	PrimaryEnergetik     PrimaryTag = "#ENERGETIK"
	PrimarySchach        PrimaryTag = "#SCHACH"
	PrimaryBeruf         PrimaryTag = "#BERUF"
	PrimarySystemTechnik PrimaryTag = "#SYSTEM/TECHNIK"
)

const (
	ProcessAnalyse         ProcessTag = "#Analyse"
	ProcessEntwurf         ProcessTag = "#Entwurf"
	ProcessImplementierung ProcessTag = "#Implementierung"
	ProcessTest            ProcessTag = "#Test"
	ProcessRefaktorierung  ProcessTag = "#Refaktorierung"
	ProcessMeta            ProcessTag = "#Meta"
	ProcessKorrektur       ProcessTag = "#Korrektur"
	ProcessEvaluation      ProcessTag = "#Evaluation"
)

// DefaultProcess is assigned when a header names no process stage.
const DefaultProcess = ProcessAnalyse

const (
	IntensityHoch    IntensityTag = "#hoch"
	IntensityMittel  IntensityTag = "#mittel"
	IntensityNiedrig IntensityTag = "#niedrig"
)

const (
	NumPrimaries   = 7
	NumProcesses   = 8
	NumIntensities = 3
)

var (
	Primaries   = [NumPrimaries]PrimaryTag{PrimaryMusik, PrimaryImpuls, PrimaryMastersphere, PrimaryEnergetik, PrimarySchach, PrimaryBeruf, PrimarySystemTechnik}
	Processes   = [NumProcesses]ProcessTag{ProcessAnalyse, ProcessEntwurf, ProcessImplementierung, ProcessTest, ProcessRefaktorierung, ProcessMeta, ProcessKorrektur, ProcessEvaluation}
	Intensities = [NumIntensities]IntensityTag{IntensityHoch, IntensityMittel, IntensityNiedrig}
	Emotions    = [5]EmotionTag{"#Resonanz", "#Kohärenz", "#Klarheit", "#Wachstum", "#Umbruch"}
	Structures  = [6]StructureTag{"#Archiv", "#Dokument", "#Master", "#Blueprint", "#Regeln", "#Betriebssystem"}
	MetaSystems = [6]MetaSystemTag{"#OS", "#Kernel", "#Protokoll", "#Architektur", "#Interface", "#Datenstruktur"}
)

func indexOf[T ~string](vocab []T, token string) int {
	for i, v := range vocab {
		if string(v) == token {
			return i
		}
	}
	return -1
}

// canonical folds a token to NFC so composed and decomposed umlauts compare equal.
func canonical(token string) string {
	return norm.NFC.String(token)
}

// ParsePrimary resolves a primary tag as typed on the command line.
func ParsePrimary(s string) (PrimaryTag, bool) {
	i := indexOf(Primaries[:], canonical(s))
	if i < 0 {
		return "", false
	}
	return Primaries[i], true
}

func (p PrimaryTag) Index() int { return indexOf(Primaries[:], string(p)) }

func (p ProcessTag) Index() int { return indexOf(Processes[:], string(p)) }

func (t IntensityTag) Index() int { return indexOf(Intensities[:], string(t)) }
