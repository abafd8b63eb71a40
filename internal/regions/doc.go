// Package regions partitions a full GA drawing page into its views.
//
// Two front-ends produce the same ViewAssignment:
//
//   - Assign maps page-level candidate boxes to views from their aspect
//     ratio, largest boxes first, with a deterministic fallback.
//   - AssignByLabels maps OCR word tokens ("PLAN", "PROFILE", "BODY", ...)
//     to views through a keyword table; AnchorLabels then resolves each
//     label to the candidate region it captions.
//
// All thresholds are named, overridable values. They were tuned empirically
// on real GA sheets and carry no derivation beyond that.
package regions
