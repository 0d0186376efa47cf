package transport

import (
	"github.com/wb-go/wbf/ginext"
)

// RegisterRoutes wires every gallery endpoint onto r
func RegisterRoutes(r *ginext.Engine, h *GalleryHandler) {
	r.GET("/ping", h.SimplePinger)
	r.GET("/", h.Index)                          // страница галереи
	r.GET("/api/state", h.State)                 // снимок состояния в JSON
	r.POST("/reload", h.Reload)                  // перезагрузка списка
	r.POST("/upload/file", h.SelectFile)         // выбор файла
	r.GET("/upload/preview", h.Preview)          // превью выбранного файла
	r.POST("/upload/fields", h.SetFields)        // процесс и локация
	r.POST("/upload", h.Upload)                  // отправка в сервис
	r.GET("/photos/:id", h.Select)               // открыть оверлей
	r.GET("/photos/:id/raw", h.Raw)              // байты картинки
	r.GET("/photos/:id/delete", h.ConfirmDelete) // подтверждение
	r.POST("/photos/:id/delete", h.Delete)       // удаление
	r.POST("/overlay/click", h.OverlayClick)     // клик по оверлею
}
