package models

import "strings"

// ProductBase is the identity of a listed product
type ProductBase struct {
	Name string `bson:"name" json:"name"`
	Link string `bson:"link" json:"link"`
	Img  string `bson:"img" json:"img"`
}

// ProductAttributes holds the detail-page fields. A nil field means the page did not carry it.
type ProductAttributes struct {
	Battery         *string `bson:"battery" json:"Battery"`
	MaxPuff         *string `bson:"max_puff" json:"Max_Puff"`
	Display         *string `bson:"display" json:"Display"`
	Nicotine        *string `bson:"nicotine" json:"Nicotine"`
	ELiquidCapacity *string `bson:"e_liquid_capacity" json:"E_liquid_Capacity"`
}

// ProductDetails represents a scraped product: its identity plus the detail attributes
type ProductDetails struct {
	ProductBase       `bson:",inline"`
	ProductAttributes `bson:",inline"`
}

// NewProductDetails combines an identity with its attributes. Blank attribute values are
// treated as absent.
func NewProductDetails(base ProductBase, attrs ProductAttributes) ProductDetails {
	return ProductDetails{
		ProductBase: base,
		ProductAttributes: ProductAttributes{
			Battery:         clean(attrs.Battery),
			MaxPuff:         clean(attrs.MaxPuff),
			Display:         clean(attrs.Display),
			Nicotine:        clean(attrs.Nicotine),
			ELiquidCapacity: clean(attrs.ELiquidCapacity),
		},
	}
}

func clean(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}
