// Package scoring implements the rule-based compliance scoring engine.
//
// The engine maps extracted SOC 2 controls onto regulatory frameworks via
// static lookup tables. Two views are produced for DORA:
//
//   - Pillar compliance: controls are bucketed by normalized TSC category,
//     each of the five DORA pillars averages the effectiveness ratio of its
//     mapped categories, and the overall score is the unweighted mean of the
//     pillar scores. Pillars below 50 are reported as gaps.
//   - Article coverage: controls are matched against the DORA article matrix
//     (Articles 5-45) producing full/partial/none coverage levels with
//     confidence, a weighted overall score, and remediation suggestions.
//
// Additional frameworks (NIS2, GDPR, ISO 27001) reuse the category-ratio
// machinery through per-framework requirement tables. Mappings can be
// overridden at runtime from a YAML file via the Registry.
//
// All scoring is pure: deterministic, order-independent with respect to the
// input control slice, and free of side effects.
package scoring
