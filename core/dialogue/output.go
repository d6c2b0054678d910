package dialogue

import "github.com/weftkit/weft/core/glozz"

// Feature order for annotated-stage files. Glozz is sensitive to
// attribute order when diffing, so rewrites keep the order the STAC
// pipeline has always used.
var FeatureOrder = []string{
	"Status",
	"Quantity",
	"Correctness",
	"Kind",
	"Comments",
	"Developments",
	"Emitter",
	"Identifier",
	"Timestamp",
	"Resources",
	"Trades",
	"Dice_rolling",
	"Gets",
	"Has_resources",
	"Amount_of_resources",
	"Addressee",
	"Surface_act",
}

// Feature order for unannotated-stage files, which historically
// differs from the annotated one.
var UnannotatedFeatureOrder = []string{
	"Status",
	"Quantity",
	"Correctness",
	"Kind",
	"Identifier",
	"Timestamp",
	"Emitter",
	"Resources",
	"Developments",
	"Comments",
	"Dice_rolling",
	"Gets",
	"Trades",
	"Has_resources",
	"Amount_of_resources",
	"Addressee",
	"Surface_act",
}

// MetadataOrder is the element order within metadata blocks.
var MetadataOrder = []string{
	"author",
	"creation-date",
	"lastModifier",
	"lastModificationDate",
}

// Output settings for writing annotated and unannotated stage files
// byte-compatibly with the rest of the STAC pipeline.
var (
	AnnotatedOutput = glozz.OutputSettings{
		FeatureOrder:  FeatureOrder,
		MetadataOrder: MetadataOrder,
	}
	UnannotatedOutput = glozz.OutputSettings{
		FeatureOrder:  UnannotatedFeatureOrder,
		MetadataOrder: MetadataOrder,
	}
)
