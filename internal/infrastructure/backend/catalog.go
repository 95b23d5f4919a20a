package backend

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/inventario-ventas/internal/application/ports"
	"github.com/jhoicas/inventario-ventas/internal/domain"
	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
	"github.com/jhoicas/inventario-ventas/pkg/jsonx"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  *struct {
		ID    jsonx.ID `json:"id"`
		Email string   `json:"email"`
	} `json:"user"`
}

// Login POST /login. Credenciales rechazadas llegan como domain.ErrUnauthorized con el
// mensaje del backend.
func (c *Client) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	var out loginResponse
	err := c.do(ctx, request{
		op:     "login",
		method: http.MethodPost,
		path:   "/login",
		body:   loginRequest{Email: email, Password: password},
	}, &out)
	if err != nil {
		return nil, err
	}
	res := &ports.LoginResult{Token: out.Token}
	if out.User != nil {
		res.UserID = entity.UserID(out.User.ID)
		res.Email = out.User.Email
	}
	return res, nil
}

type familyWire struct {
	ID     jsonx.ID `json:"id"`
	Name   string   `json:"name"`
	Nombre string   `json:"nombre"`
}

type productWire struct {
	ID      jsonx.ID `json:"id"`
	Name    string   `json:"name"`
	Nombre  string   `json:"nombre"`
	Familia jsonx.ID `json:"familia"`
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// LoadCatalog GET /familias y GET /productos en paralelo. El backend referencia la
// familia del producto por nombre (a veces por id); aquí se resuelve una sola vez a FamilyID.
func (c *Client) LoadCatalog(ctx context.Context, cred entity.Credentials) (entity.Catalog, error) {
	var (
		families []familyWire
		products []productWire
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.do(gctx, request{op: "familias", method: http.MethodGet, path: "/familias", cred: &cred}, &families)
	})
	g.Go(func() error {
		return c.do(gctx, request{op: "productos", method: http.MethodGet, path: "/productos", cred: &cred}, &products)
	})
	if err := g.Wait(); err != nil {
		return entity.Catalog{}, err
	}

	cat := entity.Catalog{
		Families: make([]entity.Family, 0, len(families)),
		Products: make([]entity.Product, 0, len(products)),
	}
	byID := make(map[string]entity.Family, len(families))
	byName := make(map[string]entity.Family, len(families))
	for _, fw := range families {
		f := entity.Family{ID: entity.FamilyID(fw.ID), Name: firstNonEmpty(fw.Name, fw.Nombre)}
		cat.Families = append(cat.Families, f)
		byID[string(f.ID)] = f
		byName[strings.ToLower(f.Name)] = f
	}
	for _, pw := range products {
		p := entity.Product{
			ID:         entity.ProductID(pw.ID),
			Name:       firstNonEmpty(pw.Name, pw.Nombre),
			FamilyName: pw.Familia.String(),
		}
		ref := strings.TrimSpace(pw.Familia.String())
		f, ok := byName[strings.ToLower(ref)]
		if !ok {
			f, ok = byID[ref]
		}
		if ok {
			p.FamilyID = f.ID
			p.FamilyName = f.Name
		} else {
			c.log.Debug().Str("product_id", string(p.ID)).Str("familia", ref).Msg("backend: producto con familia desconocida")
		}
		cat.Products = append(cat.Products, p)
	}
	return cat, nil
}

type presentationsResponse struct {
	Presentaciones []struct {
		ID               jsonx.ID `json:"id"`
		PresentationName string   `json:"presentation_name"`
		Nombre           string   `json:"nombre"`
	} `json:"presentaciones"`
}

// Presentations GET /presentaciones/:product_id. Un producto sin presentaciones (404)
// devuelve lista vacía.
func (c *Client) Presentations(ctx context.Context, cred entity.Credentials, productID entity.ProductID) ([]entity.Presentation, error) {
	var out presentationsResponse
	err := c.do(ctx, request{
		op:     "presentaciones",
		method: http.MethodGet,
		path:   "/presentaciones/" + seg(string(productID)),
		cred:   &cred,
	}, &out)
	if errors.Is(err, domain.ErrNotFound) {
		return []entity.Presentation{}, nil
	}
	if err != nil {
		return nil, err
	}
	list := make([]entity.Presentation, 0, len(out.Presentaciones))
	for _, pw := range out.Presentaciones {
		list = append(list, entity.Presentation{
			ID:        entity.PresentationID(pw.ID),
			ProductID: productID,
			Name:      firstNonEmpty(pw.PresentationName, pw.Nombre),
		})
	}
	return list, nil
}
