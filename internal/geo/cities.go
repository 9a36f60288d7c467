package geo

// cityTable is the fixed set of supported trip endpoints.
var cityTable = []City{
	{Value: "new_york_ny", Label: "New York, NY", Lat: 40.7128, Lng: -74.0060},
	{Value: "los_angeles_ca", Label: "Los Angeles, CA", Lat: 34.0522, Lng: -118.2437},
	{Value: "chicago_il", Label: "Chicago, IL", Lat: 41.8781, Lng: -87.6298},
	{Value: "houston_tx", Label: "Houston, TX", Lat: 29.7604, Lng: -95.3698},
	{Value: "phoenix_az", Label: "Phoenix, AZ", Lat: 33.4484, Lng: -112.0740},
	{Value: "philadelphia_pa", Label: "Philadelphia, PA", Lat: 39.9526, Lng: -75.1652},
	{Value: "san_antonio_tx", Label: "San Antonio, TX", Lat: 29.4241, Lng: -98.4936},
	{Value: "san_diego_ca", Label: "San Diego, CA", Lat: 32.7157, Lng: -117.1611},
	{Value: "dallas_tx", Label: "Dallas, TX", Lat: 32.7767, Lng: -96.7970},
	{Value: "san_jose_ca", Label: "San Jose, CA", Lat: 37.3382, Lng: -121.8863},
	{Value: "austin_tx", Label: "Austin, TX", Lat: 30.2672, Lng: -97.7431},
	{Value: "jacksonville_fl", Label: "Jacksonville, FL", Lat: 30.3322, Lng: -81.6557},
	{Value: "fort_worth_tx", Label: "Fort Worth, TX", Lat: 32.7555, Lng: -97.3308},
	{Value: "columbus_oh", Label: "Columbus, OH", Lat: 39.9612, Lng: -82.9988},
	{Value: "charlotte_nc", Label: "Charlotte, NC", Lat: 35.2271, Lng: -80.8431},
	{Value: "indianapolis_in", Label: "Indianapolis, IN", Lat: 39.7684, Lng: -86.1581},
	{Value: "seattle_wa", Label: "Seattle, WA", Lat: 47.6062, Lng: -122.3321},
	{Value: "denver_co", Label: "Denver, CO", Lat: 39.7392, Lng: -104.9903},
	{Value: "washington_dc", Label: "Washington, DC", Lat: 38.9072, Lng: -77.0369},
	{Value: "boston_ma", Label: "Boston, MA", Lat: 42.3601, Lng: -71.0589},
	{Value: "nashville_tn", Label: "Nashville, TN", Lat: 36.1627, Lng: -86.7816},
	{Value: "detroit_mi", Label: "Detroit, MI", Lat: 42.3314, Lng: -83.0458},
	{Value: "oklahoma_city_ok", Label: "Oklahoma City, OK", Lat: 35.4676, Lng: -97.5164},
	{Value: "portland_or", Label: "Portland, OR", Lat: 45.5152, Lng: -122.6784},
	{Value: "las_vegas_nv", Label: "Las Vegas, NV", Lat: 36.1699, Lng: -115.1398},
	{Value: "memphis_tn", Label: "Memphis, TN", Lat: 35.1495, Lng: -90.0490},
	{Value: "louisville_ky", Label: "Louisville, KY", Lat: 38.2527, Lng: -85.7585},
	{Value: "baltimore_md", Label: "Baltimore, MD", Lat: 39.2904, Lng: -76.6122},
	{Value: "milwaukee_wi", Label: "Milwaukee, WI", Lat: 43.0389, Lng: -87.9065},
	{Value: "albuquerque_nm", Label: "Albuquerque, NM", Lat: 35.0844, Lng: -106.6504},
	{Value: "tucson_az", Label: "Tucson, AZ", Lat: 32.2226, Lng: -110.9747},
	{Value: "fresno_ca", Label: "Fresno, CA", Lat: 36.7378, Lng: -119.7871},
	{Value: "sacramento_ca", Label: "Sacramento, CA", Lat: 38.5816, Lng: -121.4944},
	{Value: "kansas_city_mo", Label: "Kansas City, MO", Lat: 39.0997, Lng: -94.5786},
	{Value: "atlanta_ga", Label: "Atlanta, GA", Lat: 33.7490, Lng: -84.3880},
	{Value: "miami_fl", Label: "Miami, FL", Lat: 25.7617, Lng: -80.1918},
	{Value: "minneapolis_mn", Label: "Minneapolis, MN", Lat: 44.9778, Lng: -93.2650},
	{Value: "new_orleans_la", Label: "New Orleans, LA", Lat: 29.9511, Lng: -90.0715},
	{Value: "tampa_fl", Label: "Tampa, FL", Lat: 27.9506, Lng: -82.4572},
	{Value: "orlando_fl", Label: "Orlando, FL", Lat: 28.5383, Lng: -81.3792},
	{Value: "cleveland_oh", Label: "Cleveland, OH", Lat: 41.4993, Lng: -81.6944},
	{Value: "cincinnati_oh", Label: "Cincinnati, OH", Lat: 39.1031, Lng: -84.5120},
	{Value: "pittsburgh_pa", Label: "Pittsburgh, PA", Lat: 40.4406, Lng: -79.9959},
	{Value: "st_louis_mo", Label: "St. Louis, MO", Lat: 38.6270, Lng: -90.1994},
	{Value: "boise_id", Label: "Boise, ID", Lat: 43.6150, Lng: -116.2023},
	{Value: "omaha_ne", Label: "Omaha, NE", Lat: 41.2565, Lng: -95.9345},
	{Value: "raleigh_nc", Label: "Raleigh, NC", Lat: 35.7796, Lng: -78.6382},
	{Value: "provo_ut", Label: "Provo, UT", Lat: 40.2338, Lng: -111.6585},
	{Value: "logan_ut", Label: "Logan, UT", Lat: 41.7369, Lng: -111.8338},
	{Value: "salt_lake_city_ut", Label: "Salt Lake City, UT", Lat: 40.7608, Lng: -111.8910},
	{Value: "rexburg_id", Label: "Rexburg, ID", Lat: 43.8260, Lng: -111.7897},
	{Value: "tempe_az", Label: "Tempe, AZ", Lat: 33.4255, Lng: -111.9400},
}
