package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"bookstore-backend/internal/config"
	"bookstore-backend/internal/database"
	"bookstore-backend/internal/handlers"
	"bookstore-backend/internal/mail"
	"bookstore-backend/internal/middleware"
	"bookstore-backend/internal/otp"
	"bookstore-backend/internal/payments"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("user index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("order index warning: %v", err)
	}
	if err := database.EnsurePaymentSessionIndexes(db); err != nil {
		log.Printf("payment session index warning: %v", err)
	}
	if err := database.EnsureNewsletterIndexes(db); err != nil {
		log.Printf("newsletter index warning: %v", err)
	}

	var cardProcessor payments.CardProcessor
	if p := payments.NewStripeProcessor(config.AppEnv.StripeSecretKey); p != nil {
		cardProcessor = p
	} else {
		log.Println("STRIPE_SECRET_KEY not set, card payments disabled")
	}

	var walletVerifier payments.WalletVerifier
	if v, err := payments.NewPayPalVerifier(config.AppEnv.PayPalClientID, config.AppEnv.PayPalSecret, config.AppEnv.PayPalLive); err != nil {
		log.Println("paypal client init failed, paypal payments disabled:", err)
	} else if v != nil {
		walletVerifier = v
	} else {
		log.Println("PAYPAL_CLIENT_ID not set, paypal payments disabled")
	}

	otpStore := otp.NewStore(config.AppEnv.RedisAddr, config.AppEnv.RedisPassword)
	if err := otpStore.Ping(context.Background()); err != nil {
		log.Println("redis unreachable, password reset OTPs unavailable:", err)
	}
	mailer := mail.NewMailer(
		config.AppEnv.SMTPHost,
		config.AppEnv.SMTPPort,
		config.AppEnv.SMTPUser,
		config.AppEnv.SMTPPassword,
		config.AppEnv.MailFrom,
	)

	// Settle card-payment sessions left pending by a crash between external
	// confirmation and local order creation.
	go handlers.ReconcilePaymentSessions(context.Background(), db, cardProcessor)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     config.AppEnv.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	userAuth := middleware.UserAuth(config.AppEnv.JWTSecret)
	adminAuth := middleware.AdminAuth(config.AppEnv.JWTSecret)

	book := r.Group("/book")
	{
		book.GET("/get-books", handlers.GetBooks(db))
		book.GET("/get/:id", handlers.GetBook(db))

		book.POST("/add", adminAuth, handlers.AddBook(db))
		book.PUT("/update/:id", adminAuth, handlers.UpdateBook(db))
		book.DELETE("/delete/:id", adminAuth, handlers.DeleteBook(db))
	}

	user := r.Group("/user")
	{
		user.POST("/register", handlers.Register(db, config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL))
		user.POST("/login", handlers.Login(db, config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL))
		user.GET("/me", userAuth, handlers.GetProfile(db))
		user.GET("/profile", userAuth, handlers.GetProfile(db))
		user.PUT("/profile", userAuth, handlers.UpdateProfile(db))
	}

	cart := r.Group("/cart", userAuth)
	{
		cart.POST("/add", handlers.AddToCart(db))
		cart.POST("/remove", handlers.RemoveFromCart(db))
		cart.POST("/update", handlers.UpdateCart(db))
		cart.GET("/get", handlers.GetCart(db))
	}

	address := r.Group("/address", userAuth)
	{
		address.POST("/add", handlers.AddAddress(db))
		address.GET("/get", handlers.GetAddresses(db))
	}

	order := r.Group("/order")
	{
		order.POST("/place-cod", userAuth, handlers.PlaceOrderCOD(db))
		order.POST("/create", userAuth, handlers.PlaceOrderCOD(db))
		order.GET("/user-orders", userAuth, handlers.GetUserOrders(db))
		order.PUT("/cancel/:orderId", userAuth, handlers.CancelOrder(db))

		order.GET("/all-orders", adminAuth, handlers.GetAllOrders(db))
		order.PUT("/update-status/:orderId", adminAuth, handlers.UpdateOrderStatus(db))
	}

	payment := r.Group("/payment", userAuth)
	{
		payment.POST("/create-payment-intent", handlers.CreatePaymentIntent(db, cardProcessor))
		payment.POST("/confirm-payment", handlers.ConfirmPayment(db, cardProcessor))
		payment.POST("/paypal-order", handlers.CreatePayPalOrder(db, walletVerifier))
	}

	password := r.Group("/password")
	{
		password.POST("/send-reset-otp", handlers.SendResetOTP(db, otpStore, mailer))
		password.POST("/reset", handlers.ResetPassword(db, otpStore))
	}

	r.POST("/newsletter/subscribe", handlers.SubscribeNewsletter(db, mailer))

	admin := r.Group("/admin")
	{
		admin.POST("/login", handlers.AdminLogin(
			config.AppEnv.JWTSecret,
			config.AppEnv.AdminEmail,
			config.AppEnv.AdminPassword,
			config.AppEnv.AccessTokenTTL,
		))
		admin.GET("/is-auth", adminAuth, handlers.AdminIsAuth())
		admin.GET("/users", adminAuth, handlers.GetAllUsers(db))
		admin.PUT("/users/:id", adminAuth, handlers.AdminUpdateUser(db))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
