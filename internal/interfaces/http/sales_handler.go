package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ventas/internal/application/dto"
	"github.com/jhoicas/inventario-ventas/internal/application/sales"
	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
)

// SalesHandler expone la terminal de ventas de la sesión.
type SalesHandler struct {
	terminals *sales.Registry
	receipts  *sales.ReceiptUseCase
	log       zerolog.Logger
}

// NewSalesHandler construye el handler.
func NewSalesHandler(terminals *sales.Registry, receipts *sales.ReceiptUseCase, log zerolog.Logger) *SalesHandler {
	return &SalesHandler{terminals: terminals, receipts: receipts, log: log}
}

// terminal de la sesión, con el catálogo cargado (o reintentado si falló antes).
func (h *SalesHandler) terminal(c *fiber.Ctx) *sales.Terminal {
	t := h.terminals.Get(GetSession(c))
	t.EnsureCatalog(c.UserContext())
	return t
}

// State godoc
// @Summary      Estado de la terminal
// @Description  Listas seleccionables, selección, stock, precio, vista previa, carrito y totales.
// @Tags         Ventas
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.TerminalView
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/sales/state [get]
func (h *SalesHandler) State(c *fiber.Ctx) error {
	return c.JSON(h.terminal(c).View())
}

// SelectFamily godoc
// @Summary      Seleccionar familia
// @Tags         Ventas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.SelectFamilyRequest  true  "Familia"
// @Success      200   {object}  dto.TerminalView
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/sales/selection/family [put]
func (h *SalesHandler) SelectFamily(c *fiber.Ctx) error {
	var in dto.SelectFamilyRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	t := h.terminal(c)
	if err := t.SelectFamily(entity.FamilyID(in.FamilyID)); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(t.View())
}

// SelectProduct godoc
// @Summary      Seleccionar producto
// @Description  Carga las presentaciones; si hay una sola, la selecciona y consulta stock y precio.
// @Tags         Ventas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.SelectProductRequest  true  "Producto"
// @Success      200   {object}  dto.TerminalView
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales/selection/product [put]
func (h *SalesHandler) SelectProduct(c *fiber.Ctx) error {
	var in dto.SelectProductRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	t := h.terminal(c)
	if err := t.SelectProduct(c.UserContext(), entity.ProductID(in.ProductID)); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(t.View())
}

// SelectPresentation godoc
// @Summary      Seleccionar presentación
// @Description  Consulta stock y precio en paralelo. Los fallos llegan como avisos en notices.
// @Tags         Ventas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.SelectPresentationRequest  true  "Presentación"
// @Success      200   {object}  dto.TerminalView
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales/selection/presentation [put]
func (h *SalesHandler) SelectPresentation(c *fiber.Ctx) error {
	var in dto.SelectPresentationRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	t := h.terminal(c)
	if err := t.SelectPresentation(c.UserContext(), entity.PresentationID(in.PresentationID)); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(t.View())
}

// SetQuantity godoc
// @Summary      Cantidad de la línea
// @Tags         Ventas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.QuantityRequest  true  "Cajas y unidades"
// @Success      200   {object}  dto.TerminalView
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/sales/quantity [put]
func (h *SalesHandler) SetQuantity(c *fiber.Ctx) error {
	var in dto.QuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	t := h.terminal(c)
	if err := t.SetQuantity(in.Boxes, in.Units); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(t.View())
}

// SetDiscount godoc
// @Summary      Descuento de la línea
// @Description  Porcentaje entre 0 y 100. Vacío equivale a 0.
// @Tags         Ventas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.DiscountRequest  true  "Porcentaje"
// @Success      200   {object}  dto.TerminalView
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/sales/discount [put]
func (h *SalesHandler) SetDiscount(c *fiber.Ctx) error {
	var in dto.DiscountRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	percent := decimal.Zero
	if s := strings.TrimSpace(in.Percent); s != "" {
		d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "descuento inválido"})
		}
		percent = d
	}
	t := h.terminal(c)
	if err := t.SetDiscount(percent); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(t.View())
}

// AddLine godoc
// @Summary      Agregar al carrito
// @Description  Agrega la selección actual como línea. Valida stock y precio.
// @Tags         Ventas
// @Security     Bearer
// @Produce      json
// @Success      201  {object}  dto.TerminalView
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/cart/lines [post]
func (h *SalesHandler) AddLine(c *fiber.Ctx) error {
	t := h.terminal(c)
	if _, err := t.AddToCart(); err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(t.View())
}

// RemoveLine godoc
// @Summary      Quitar línea del carrito
// @Tags         Ventas
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la línea"
// @Success      200  {object}  dto.TerminalView
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/cart/lines/{id} [delete]
func (h *SalesHandler) RemoveLine(c *fiber.Ctx) error {
	t := h.terminal(c)
	if err := t.RemoveLine(entity.LineID(c.Params("id"))); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(t.View())
}

// Submit godoc
// @Summary      Registrar la venta
// @Description  Envía el carrito con un token de idempotencia. Carrito vacío, envío en curso o venta repetida no llaman al backend.
// @Tags         Ventas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.SubmitSaleRequest  false  "Descripción"
// @Success      200   {object}  dto.SubmitSaleResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/sales/submit [post]
func (h *SalesHandler) Submit(c *fiber.Ctx) error {
	var in dto.SubmitSaleRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	t := h.terminal(c)
	res, err := t.Submit(c.UserContext(), in.Description)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SubmitSaleResponse{
		Outcome:        string(res.Outcome),
		Message:        outcomeMessage(res.Outcome),
		IdempotencyKey: res.IdempotencyKey,
		State:          t.View(),
	})
}

func outcomeMessage(o sales.Outcome) string {
	switch o {
	case sales.OutcomeSubmitted:
		return "Venta registrada"
	case sales.OutcomeEmptyCart:
		return "El carrito está vacío"
	case sales.OutcomeInFlight:
		return "Ya hay un envío en curso"
	case sales.OutcomeDuplicate:
		return "Esta venta ya fue registrada"
	}
	return ""
}

// Receipt godoc
// @Summary      Comprobante de la última venta
// @Tags         Ventas
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/receipt [get]
func (h *SalesHandler) Receipt(c *fiber.Ctx) error {
	pdf, filename, err := h.receipts.Download(h.terminals.Get(GetSession(c)))
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}

// Discard godoc
// @Summary      Descartar la venta en curso
// @Description  Vacía el carrito y limpia la selección. El catálogo se conserva.
// @Tags         Ventas
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.TerminalView
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales [delete]
func (h *SalesHandler) Discard(c *fiber.Ctx) error {
	t := h.terminal(c)
	if err := t.Discard(); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(t.View())
}
