package sales

import (
	"context"
	"fmt"

	"github.com/jhoicas/retail-api/internal/domain"
	"github.com/jhoicas/retail-api/internal/domain/repository"
)

// ReceiptUseCase genera el comprobante PDF de una venta confirmada.
type ReceiptUseCase struct {
	engine      *Engine
	companyRepo repository.CompanyRepository
	branchRepo  repository.BranchRepository
	productRepo repository.ProductRepository
	generator   ReceiptGenerator
}

// NewReceiptUseCase construye el caso de uso inyectando todas sus dependencias.
func NewReceiptUseCase(
	engine *Engine,
	companyRepo repository.CompanyRepository,
	branchRepo repository.BranchRepository,
	productRepo repository.ProductRepository,
	generator ReceiptGenerator,
) *ReceiptUseCase {
	return &ReceiptUseCase{
		engine:      engine,
		companyRepo: companyRepo,
		branchRepo:  branchRepo,
		productRepo: productRepo,
		generator:   generator,
	}
}

// DownloadReceipt devuelve (pdfBytes, filename). Una venta ajena → domain.ErrNotFound.
func (uc *ReceiptUseCase) DownloadReceipt(ctx context.Context, companyID, saleID string) ([]byte, string, error) {
	sale, err := uc.engine.GetSale(ctx, companyID, saleID)
	if err != nil {
		return nil, "", err
	}

	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: obtener empresa: %w", err)
	}
	if company == nil {
		return nil, "", domain.ErrNotFound
	}
	branch, err := uc.branchRepo.GetByID(ctx, sale.BranchID)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: obtener sucursal: %w", err)
	}
	if branch == nil {
		return nil, "", domain.ErrNotFound
	}

	lines := make([]ReceiptLine, 0, len(sale.Items))
	for _, item := range sale.Items {
		line := ReceiptLine{SaleItem: item, ProductName: "Producto " + item.ProductID}
		if product, pErr := uc.productRepo.GetByID(ctx, item.ProductID); pErr == nil && product != nil {
			line.SKU = product.SKU
			line.ProductName = product.Name
		}
		lines = append(lines, line)
	}

	pdfBytes, err := uc.generator.GenerateReceiptPDF(ctx, sale, company, branch, lines)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("venta_%s.pdf", shortID(sale.ID)), nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
