// Package family provides the person dataset and relationship index used by
// the pedigree layout engine.
//
// # Overview
//
// A [Dataset] is a set of [Person] records keyed by id, plus the id of the
// proband (the index individual the chart is built around). People refer to
// their parents by id through [Person.MotherID] and [Person.FatherID]; an
// empty id means the parent is unknown. Relationships other than
// mother/father (partners, children) are derived from those two fields.
//
// # Relationship Index
//
// The query methods never modify the dataset:
//
//   - [Dataset.ChildrenOf]: people with the given person as mother or father
//   - [Dataset.ChildrenOfBoth]: children of one specific pair of parents
//   - [Dataset.PartnersOf]: co-parents of a person's children
//
// Completing a family is an explicit, separate step. When a child has one
// known parent, [Dataset.EnsureParentsComplete] synthesizes a placeholder for
// the missing role and links it into the child's record.
// [Dataset.EnsureCoParents] does the same for every child of a parent. The
// placeholder is anchored on the known parent, so half-siblings that share a
// known father also share one unknown mother:
//
//	ds.EnsureCoParents("dad")      // children of "dad" without a mother get "m_dad"
//	ds.PartnersOf("dad")           // now includes "m_dad"
//
// Placeholder ids are derived from the anchor id and role ("m_" or "f_"
// prefix), so synthesis is idempotent. When a real person already uses
// that id, the placeholder gets a numeric suffix ("m_dad_2") instead.
//
// # Iteration Order
//
// People are kept in insertion order, which for JSON input is file order.
// Every query returns ids in that order so that a layout pass over the same
// input is fully deterministic.
//
// # Concurrency
//
// A Dataset is not safe for concurrent use. A layout pass owns the dataset it
// mutates for the duration of the pass.
package family
