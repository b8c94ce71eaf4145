package handlers

// AppHandlers bundles the constructed handlers for route registration.
type AppHandlers struct {
	FormHandler  *FormHandler
	ImageHandler *ImageHandler
}
