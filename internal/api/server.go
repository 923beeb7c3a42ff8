package api

import "github.com/RoyceAzure/lab/storefront/internal/api/handler"

type Server struct {
	CatalogHandler *handler.CatalogHandler
	AuthHandler    *handler.AuthHandler
	OrderHandler   *handler.OrderHandler
	AddressHandler *handler.AddressHandler
	CartHandler    *handler.CartHandler
}

func NewServer(
	catalogHandler *handler.CatalogHandler,
	authHandler *handler.AuthHandler,
	orderHandler *handler.OrderHandler,
	addressHandler *handler.AddressHandler,
	cartHandler *handler.CartHandler,
) *Server {
	return &Server{
		CatalogHandler: catalogHandler,
		AuthHandler:    authHandler,
		OrderHandler:   orderHandler,
		AddressHandler: addressHandler,
		CartHandler:    cartHandler,
	}
}
