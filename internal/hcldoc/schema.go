package hcldoc

import "github.com/hashicorp/hcl/v2"

const (
	blockElement    = "element"
	blockText       = "text"
	blockAttributes = "attributes"
	blockAttribute  = "attribute"

	attrExtend = "extend"
	attrValue  = "value"

	// ImplicitRootType is the type of the root added above several
	// top-level elements.
	ImplicitRootType = "document"
)

var elementBlock = hcl.BlockHeaderSchema{Type: blockElement, LabelNames: []string{"type", "name"}}

var fileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{elementBlock},
}

var elementSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{{Name: attrExtend}},
	Blocks: []hcl.BlockHeaderSchema{
		elementBlock,
		{Type: blockText},
		{Type: blockAttributes},
		{Type: blockAttribute, LabelNames: []string{"name"}},
	},
}

var attributeSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		elementBlock,
		{Type: blockText},
	},
}

var textSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{{Name: attrValue, Required: true}},
}
