package entity

// Identificadores tipados del catálogo. El backend los entrega como número o string;
// el gateway los normaliza a string.
type (
	FamilyID       string
	ProductID      string
	PresentationID string
	UserID         string
)

// Family categoría de primer nivel del catálogo.
type Family struct {
	ID   FamilyID
	Name string
}

// Product producto vendible. Pertenece a una sola familia; el backend la referencia por
// nombre y el gateway la resuelve a FamilyID al cargar el catálogo.
type Product struct {
	ID         ProductID
	Name       string
	FamilyID   FamilyID
	FamilyName string
}

// Presentation empaque vendible de un producto (la unidad que lleva stock y precio).
type Presentation struct {
	ID        PresentationID
	ProductID ProductID
	Name      string
}

// Catalog familias y productos cargados una vez por terminal.
type Catalog struct {
	Families []Family
	Products []Product
}

// ProductsOf productos de la familia, en el orden del catálogo.
func (c Catalog) ProductsOf(id FamilyID) []Product {
	out := make([]Product, 0)
	for _, p := range c.Products {
		if p.FamilyID == id {
			out = append(out, p)
		}
	}
	return out
}

// Family busca la familia por id.
func (c Catalog) Family(id FamilyID) (Family, bool) {
	for _, f := range c.Families {
		if f.ID == id {
			return f, true
		}
	}
	return Family{}, false
}
