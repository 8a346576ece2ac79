package contract

import "context"

// Renderer produces the ticket's QR and barcode images.
type Renderer interface {
	RenderQR(ctx context.Context, text string) ([]byte, error)
	RenderBarcode(ctx context.Context, code string) ([]byte, error)
}
