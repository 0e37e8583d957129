// Package dataprocessing implements the reconciliation and
// temporal-windowing engine for clinical trial surveillance reports.
//
// The pipeline runs in four stages over in-memory grids supplied by the
// spreadsheet collaborator: record extraction (participants and raw lab
// events), episode reconciliation (merging same-incident samples), dose
// window classification, and aggregation into the SummaryData report
// structure. Everything after extraction is a deterministic, side-effect
// free fold, so repeated runs over the same inputs yield identical output.
package dataprocessing
