// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package document defines the normalized input tree the document model is
// built from, along with the Loader interface for producing it from a
// concrete format.
//
// The tree is already structural: references have been turned into
// explicit Extend pointers and malformed input has been replaced by Error
// placeholders. Concrete loaders, such as the HCL one, live in separate
// packages.
package document
