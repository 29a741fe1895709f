package catalog

// Product is one purchasable catalog record. Prices are whole rupees.
type Product struct {
	ID          int      `json:"id" validate:"required,gt=0"`
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Price       int      `json:"price" validate:"gte=0"`
	Size        string   `json:"size"`
	Fabric      string   `json:"fabric"`
	Color       string   `json:"color"`
	Images      []string `json:"images"`
	VideoURL    string   `json:"video_url,omitempty"`
}

// ProductRef is the minimal identity carried into the cart and wishlist.
type ProductRef struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Image string `json:"image"`
	Price int    `json:"price"`
}

// PrimaryImage returns the first image or an empty string.
func (p Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// Ref projects the product to the identity used by state containers.
func (p Product) Ref() ProductRef {
	return ProductRef{
		ID:    p.ID,
		Title: p.Title,
		Image: p.PrimaryImage(),
		Price: p.Price,
	}
}
