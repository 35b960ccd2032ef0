package router

import (
	"time"

	"opmina/internal/config"
	"opmina/internal/handler"
	"opmina/internal/infra"
	"opmina/internal/middleware"
	"opmina/internal/repository"
	"opmina/internal/service"
	"opmina/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, padronCB *infra.CircuitBreaker, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	sunatClient := infra.NewSUNATClient(cfg.SUNATApiURL)
	mailer := infra.NewMailer(cfg)

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	pesajeRepo := repository.NewPesajeRepository(db)
	canchaRepo := repository.NewCanchaRepository(db)
	almacenRepo := repository.NewAlmacenRepository(db)
	movimientoRepo := repository.NewMovimientoCanchaRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	pesajeSvc := service.NewPesajeService(pesajeRepo, canchaRepo, almacenRepo, movimientoRepo, dispatcher)
	canchaSvc := service.NewCanchaService(canchaRepo, movimientoRepo, dispatcher)
	almacenSvc := service.NewAlmacenService(almacenRepo, movimientoRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	pesajesH := handler.NewPesajesHandler(pesajeSvc, pesajeRepo, mailer, cfg)
	canchasH := handler.NewCanchasHandler(canchaSvc)
	almacenH := handler.NewAlmacenHandler(almacenSvc)
	consultaH := handler.NewConsultaRUCHandler(sunatClient, rdb, padronCB)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, padronCB))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: balancero, supervisor, administrador — declared per-endpoint
		v1.POST("/pesajes", middleware.RequireRole("balancero", "supervisor", "administrador"), pesajesH.Registrar)
		v1.GET("/pesajes", middleware.RequireRole("balancero", "supervisor", "administrador"), pesajesH.Listar)
		v1.GET("/pesajes/:id", middleware.RequireRole("balancero", "supervisor", "administrador"), pesajesH.ObtenerPorID)
		v1.GET("/pesajes/:id/ticket", middleware.RequireRole("balancero", "supervisor", "administrador"), pesajesH.DescargarTicket)
		v1.POST("/pesajes/:id/ticket/enviar", middleware.RequireRole("balancero", "supervisor", "administrador"), pesajesH.EnviarTicket)
		// Ediciones y bajas compensan stock — solo supervisión
		v1.PUT("/pesajes/:id", middleware.RequireRole("supervisor", "administrador"), pesajesH.Actualizar)
		v1.DELETE("/pesajes/:id", middleware.RequireRole("supervisor", "administrador"), pesajesH.Eliminar)
		v1.POST("/pesajes/:id/reconciliar", middleware.RequireRole("supervisor", "administrador"), pesajesH.Reconciliar)

		v1.GET("/canchas", middleware.RequireRole("balancero", "supervisor", "administrador"), canchasH.Listar)
		v1.GET("/canchas/:id", middleware.RequireRole("balancero", "supervisor", "administrador"), canchasH.ObtenerPorID)
		v1.PATCH("/canchas/:id/ajuste", middleware.RequireRole("supervisor", "administrador"), canchasH.AjustarStock)
		canchas := v1.Group("/canchas", middleware.RequireRole("administrador"))
		{
			canchas.POST("", canchasH.Crear)
			canchas.PUT("/:id", canchasH.Actualizar)
		}

		almacen := v1.Group("/almacen", middleware.RequireRole("balancero", "supervisor", "administrador"))
		{
			almacen.GET("/items", almacenH.ListarItems)
			almacen.GET("/items/:id", almacenH.ObtenerItem)
			almacen.GET("/movimientos", almacenH.ListarMovimientos)
		}

		v1.GET("/consulta/ruc/:ruc", middleware.RequireRole("balancero", "supervisor", "administrador"), consultaH.GetRUC)

		usuarios := v1.Group("/usuarios", middleware.RequireRole("administrador"))
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.PATCH("/:id/reactivar", usuariosH.Reactivar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
