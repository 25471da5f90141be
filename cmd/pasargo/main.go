package main

import (
	"context"
	"os/signal"
	"syscall"

	"pasargo/internal/cart"
	"pasargo/internal/config"
	"pasargo/internal/dispatch"
	"pasargo/internal/logger"
	"pasargo/internal/order"
	"pasargo/internal/refresh"
	"pasargo/internal/session"
	"pasargo/internal/storeapi"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	sess, err := session.FromToken(cfg.AccessToken)
	if err != nil {
		logger.L().Fatal("invalid access token", zap.Error(err))
	}

	client := storeapi.NewClient(storeapi.Config{
		BaseURL:       cfg.StoreBaseURL,
		Token:         cfg.AccessToken,
		Timeout:       cfg.RequestTimeout,
		RatePerSecond: cfg.RatePerSecond,
		Burst:         cfg.RateBurst,
	})

	cartStore := cart.NewStore()
	orders := order.NewService(client, sess, cartStore)
	coordinator := dispatch.NewCoordinator(client, sess)

	var tasks []refresh.Task
	switch sess.Role {
	case session.RoleRider:
		tasks = append(tasks, refresh.Task{Name: "rider-orders", Run: coordinator.SyncRider})
	case session.RoleShop:
		tasks = append(tasks,
			refresh.Task{Name: "shop-orders", Run: func(ctx context.Context) error {
				orders.FetchShopOrders(ctx, sess.ShopID)
				return nil
			}},
			refresh.Task{Name: "shop-rider-requests", Run: coordinator.SyncShop},
		)
	default:
		tasks = append(tasks, refresh.Task{Name: "user-orders", Run: func(ctx context.Context) error {
			orders.FetchUserOrders(ctx)
			return nil
		}})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.L().Info("starting refresh loop",
		zap.String("role", string(sess.Role)),
		zap.Duration("interval", cfg.PollInterval),
	)

	refresh.NewScheduler(cfg.PollInterval, tasks...).Run(ctx)

	logger.L().Info("shutting down")
}
