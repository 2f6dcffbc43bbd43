package store

// SQL query constants organized by entity.
// All SQL lives here; PostgresStore methods reference these constants.

// Stock queries.
const (
	queryUpsertStock = `
		INSERT INTO store_stock (
			sku, store_id, store_name, address, city, state, zip_code,
			phone, distance, quantity, pickup_quantity, instore_quantity,
			last_updated, quantity_last_changed
		) VALUES (
			@sku, @store_id, @store_name, @address, @city, @state, @zip_code,
			@phone, @distance, @quantity, @pickup_quantity, @instore_quantity,
			now(), now()
		)
		ON CONFLICT (sku, store_id) DO UPDATE SET
			store_name = EXCLUDED.store_name,
			address = EXCLUDED.address,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			zip_code = EXCLUDED.zip_code,
			phone = EXCLUDED.phone,
			distance = EXCLUDED.distance,
			quantity = EXCLUDED.quantity,
			pickup_quantity = EXCLUDED.pickup_quantity,
			instore_quantity = EXCLUDED.instore_quantity,
			last_updated = now(),
			quantity_last_changed = CASE
				WHEN store_stock.quantity IS DISTINCT FROM EXCLUDED.quantity THEN now()
				ELSE store_stock.quantity_last_changed
			END
		RETURNING last_updated`

	queryGetStock = `
		SELECT sku, store_id, COALESCE(store_name, ''), COALESCE(address, ''),
			COALESCE(city, ''), COALESCE(state, ''), COALESCE(zip_code, ''),
			COALESCE(phone, ''), COALESCE(distance, 0),
			quantity, pickup_quantity, instore_quantity, last_updated
		FROM store_stock
		WHERE sku = $1 AND store_id = $2`

	queryListStockByZip = `
		SELECT sku, store_id, COALESCE(store_name, ''), COALESCE(address, ''),
			COALESCE(city, ''), COALESCE(state, ''), COALESCE(zip_code, ''),
			COALESCE(phone, ''), COALESCE(distance, 0),
			quantity, pickup_quantity, instore_quantity, last_updated
		FROM store_stock
		WHERE sku = $1 AND zip_code = $2
		ORDER BY distance ASC, store_id ASC`
)

// Initial report queries.
const (
	queryHasInitialReport = `
		SELECT EXISTS(
			SELECT 1 FROM initial_stock_reports
			WHERE sku = $1 AND zip_code = $2
		)`

	queryMarkInitialReport = `
		INSERT INTO initial_stock_reports (sku, zip_code)
		VALUES ($1, $2)
		ON CONFLICT (sku, zip_code) DO NOTHING`
)
