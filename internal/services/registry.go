package services

// ServiceContainer bundles the wired services for handler construction.
type ServiceContainer struct {
	FormService   FormService
	UploadService UploadService
}

// NewServiceContainer wires the services over one shared session store.
func NewServiceContainer(catalog CatalogAPI, uploader ImageUploader, purger ImagePurger, previewDir string) *ServiceContainer {
	store := newSessionStore()
	return &ServiceContainer{
		FormService:   NewFormService(store, catalog),
		UploadService: NewUploadService(store, uploader, purger, previewDir),
	}
}
