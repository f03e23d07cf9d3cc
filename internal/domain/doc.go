// Package domain defines the plain data model shared by the bridge layers.
//
// # Descriptors
//
// A Descriptor names an operation, lists its argument roles in call order and
// states how the output size follows from the inputs. Descriptors are built
// once by the catalog and never mutated; callers receive deep copies.
//
// # Buffers
//
// A Buffer is a private copy of managed bytes together with the span of the
// memory it was copied from. The span is only used to detect two roles bound
// to overlapping managed memory.
//
// # Results
//
// A Result is either Success(value) or Failure(err), never both.
package domain
