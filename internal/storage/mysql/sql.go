package mysql

// Dates are always read back through DATE_FORMAT so that the driver's
// parseTime/loc settings cannot shift a calendar day.

const userExistsSQL = `SELECT 1 FROM users WHERE uid = ? LIMIT 1`

const credentialsByNameSQL = `
SELECT uid, name, password
FROM users
WHERE name = ?
ORDER BY uid
`

const hotelExistsSQL = `SELECT 1 FROM hotels WHERE hid = ? LIMIT 1`

const getHotelSQL = `
SELECT hid, hotelName, country, price_per_night, imageSrc
FROM hotels
WHERE hid = ?
`

// Serializes check-then-insert per hotel for the life of the transaction.
const lockHotelSQL = `SELECT hid FROM hotels WHERE hid = ? FOR UPDATE`

const listBookingsSQL = `
SELECT
  transactionId,
  uid,
  hid,
  DATE_FORMAT(checkin, '%Y-%m-%d'),
  DATE_FORMAT(checkout, '%Y-%m-%d')
FROM bookings
WHERE hid = ?
ORDER BY checkin, checkout
`

const insertBookingSQL = `
INSERT INTO bookings (uid, hid, checkin, checkout)
VALUES (?, ?, ?, ?)
`

const listReservationsSQL = `
SELECT
  h.hotelName,
  h.imageSrc,
  DATE_FORMAT(b.checkin, '%Y-%m-%d'),
  DATE_FORMAT(b.checkout, '%Y-%m-%d'),
  h.price_per_night
FROM bookings b
JOIN hotels h ON h.hid = b.hid
WHERE b.uid = ?
ORDER BY b.checkin, b.checkout
`

// -----------------------------------------------------------------------------
// SEED WRITES
// -----------------------------------------------------------------------------

const upsertHotelSQL = `
INSERT INTO hotels
  (hid, hotelName, country, price_per_night, imageSrc)
VALUES
  (?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  hotelName       = VALUES(hotelName),
  country         = VALUES(country),
  price_per_night = VALUES(price_per_night),
  imageSrc        = VALUES(imageSrc)
`

const upsertUserSQL = `
INSERT INTO users (uid, name, password)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE
  name     = VALUES(name),
  password = VALUES(password)
`
