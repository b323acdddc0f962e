// Package hcldoc loads documents written in HCL into a document.Tree.
//
// A document is a nest of element blocks:
//
//	element "document" "doc" {
//	  element "textInput" "ti" {}
//	  element "text" "mirror" {
//	    extend = "ti.value"
//	  }
//	  element "sequence" "seq" {
//	    attributes {
//	      from = 3
//	      to   = 6
//	    }
//	  }
//	  element "boolean" "b" {
//	    attribute "hide" {
//	      text { value = "false" }
//	    }
//	    text { value = "true" }
//	  }
//	}
//
// text blocks are literal text children. attributes is shorthand for
// attributes holding a single piece of text, while attribute blocks hold
// arbitrary content. Files of a directory load in lexical order. More than
// one top-level element gets an implicit document root.
package hcldoc
