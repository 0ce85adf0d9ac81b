package mapping

import "github.com/eastgenomics/inca-import/internal/domain"

// Defaults returns the shipped mapping tables for the three known report
// shapes. A table supplied with --mapping replaces all of this.
func Defaults() Set {
	return Set{
		domain.SchemaStandard: standardTable(),
		domain.SchemaFlat:     flatTable(),
		domain.SchemaNested:   nestedTable(),
	}
}

// The positional export: findings under each evaluation's variants array,
// evidence criteria as alternating code/strength lists, a combined
// ref/alt field, US-style dates on the evaluation.
func standardTable() Table {
	return Table{
		DateLayout: "01/02/2006",
		Entries: []Entry{
			{Target: domain.FieldGeneSymbol, Strategy: StrategyDirect, Path: ".geneName", Fallback: ".acmgScoring.interpretedGene"},
			{Target: "germline_classification", Strategy: StrategyDirect, Path: ".classification"},
			{Target: "ref_genome", Strategy: StrategyDirect, Path: ".genomeBuild"},
			{Target: "chromosome", Strategy: StrategyDirect, Path: ".chromosome"},
			{Target: "start", Strategy: StrategyDirect, Path: ".start"},
			{Target: "hgvsc", Strategy: StrategyHGVSCJoin, Paths: []string{".transcript.name", ".transcript.cdna"}},
			{Strategy: StrategyRefAltSplit, Path: ".refAlt", RefTarget: "ref", AltTarget: "alt"},
			{Target: "date_last_evaluated", Strategy: StrategyDateReformat, Path: ".classificationDate"},
			{Target: "code", Strategy: StrategyACGSCodeStrength, Path: ".acmgScoring.criteria[]"},
			{Target: domain.FieldReported, Strategy: StrategyReportedFlag, Path: ".reportingStatus[]"},
			{Target: "consequence", Strategy: StrategyEffectJoin, Path: ".consequences[]"},
		},
	}
}

// The flat export: findings at the top level, bare evidence codes without
// strengths, separate ref and alt fields, US-style date on the document.
func flatTable() Table {
	return Table{
		DateLayout: "01/02/2006",
		Entries: []Entry{
			{Target: domain.FieldGeneSymbol, Strategy: StrategyDirect, Path: ".gene", Fallback: ".interpretedGene"},
			{Target: "germline_classification", Strategy: StrategyDirect, Path: ".verdict"},
			{Target: "ref_genome", Strategy: StrategyDirect, Path: ".assembly"},
			{Target: "chromosome", Strategy: StrategyDirect, Path: ".chrom"},
			{Target: "start", Strategy: StrategyDirect, Path: ".position"},
			{Target: "hgvsc", Strategy: StrategyHGVSCJoin, Paths: []string{".transcriptId", ".cNomen"}},
			{Strategy: StrategyRefAltSplit, Path: ".ref", AltPath: ".alt", RefTarget: "ref", AltTarget: "alt"},
			{Target: "date_last_evaluated", Strategy: StrategyDateReformat, Path: ".reportDate"},
			{Target: "code", Strategy: StrategyACGSCodeStrength, Path: ".evidences[]"},
			{Target: domain.FieldReported, Strategy: StrategyReportedFlag, Path: ".status"},
			{Target: "consequence", Strategy: StrategyEffectJoin, Path: ".effects[]"},
		},
	}
}

// The oldest export: findings grouped two levels deep, day-first date on
// the interpretation block, no evidence codes and no reliable reported
// status anywhere in the shape.
func nestedTable() Table {
	return Table{
		DateLayout: "02/01/2006",
		Entries: []Entry{
			{Target: domain.FieldGeneSymbol, Strategy: StrategyDirect, Path: ".geneSymbol", Fallback: ".interpretedGene"},
			{Target: "germline_classification", Strategy: StrategyDirect, Path: ".assessment"},
			{Target: "ref_genome", Strategy: StrategyDirect, Path: ".referenceGenome"},
			{Target: "chromosome", Strategy: StrategyDirect, Path: ".chromosome"},
			{Target: "start", Strategy: StrategyDirect, Path: ".position"},
			{Target: "hgvsc", Strategy: StrategyHGVSCJoin, Paths: []string{".transcript", ".hgvsc"}},
			{Strategy: StrategyRefAltSplit, Path: ".alleles", RefTarget: "ref", AltTarget: "alt"},
			{Target: "date_last_evaluated", Strategy: StrategyDateReformat, Path: ".interpretation.reportedDate"},
			{Target: "code", Strategy: StrategyACGSCodeStrength, Unsupported: true},
			{Target: domain.FieldReported, Strategy: StrategyReportedFlag, Unsupported: true},
			{Target: "consequence", Strategy: StrategyEffectJoin, Path: ".consequenceTerms[]"},
		},
	}
}
